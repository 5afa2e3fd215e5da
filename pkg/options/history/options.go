// Package history provides conversation history configuration options.
package history

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/campus-chat/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains conversation history configuration.
type Options struct {
	// MaxHistory is the number of exchanges retained per session. A session
	// stores at most 2×MaxHistory turns (one user and one assistant turn per
	// exchange); older turns are evicted oldest-first.
	MaxHistory int `json:"max-history" mapstructure:"max-history"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		MaxHistory: 10,
	}
}

// AddFlags adds flags for history options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.MaxHistory, options.Join(prefixes...)+"history.max-history", o.MaxHistory, "Number of exchanges retained per session.")
}

// Validate validates the history options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.MaxHistory <= 0 {
		errs = append(errs, fmt.Errorf("history.max-history must be positive"))
	}

	return errs
}

// Complete completes the history options with defaults.
func (o *Options) Complete() error {
	return nil
}
