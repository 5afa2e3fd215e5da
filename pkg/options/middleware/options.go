// Package middleware provides HTTP middleware configuration options.
package middleware

import (
	"github.com/spf13/pflag"
)

// CORSOptions contains CORS middleware configuration.
type CORSOptions struct {
	// AllowOrigins is the list of origins that may access the service.
	AllowOrigins []string `json:"allow-origins" mapstructure:"allow-origins"`

	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool `json:"allow-credentials" mapstructure:"allow-credentials"`
}

// NewCORSOptions creates new CORSOptions with defaults. The frontend is
// served from an arbitrary origin, so all origins are allowed by default.
func NewCORSOptions() *CORSOptions {
	return &CORSOptions{
		AllowOrigins:     []string{"*"},
		AllowCredentials: false,
	}
}

// AddFlags adds flags for CORS options to the specified FlagSet.
func (o *CORSOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.AllowOrigins, "cors.allow-origins", o.AllowOrigins, "Origins allowed to access the service.")
	fs.BoolVar(&o.AllowCredentials, "cors.allow-credentials", o.AllowCredentials, "Whether credentials are allowed.")
}

// Validate validates the CORS options.
func (o *CORSOptions) Validate() []error {
	return nil
}

// Complete completes the CORS options with defaults.
func (o *CORSOptions) Complete() error {
	if len(o.AllowOrigins) == 0 {
		o.AllowOrigins = []string{"*"}
	}
	return nil
}
