// Package rag provides retrieval configuration options.
package rag

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/campus-chat/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains retrieval-specific configuration.
type Options struct {
	// KnowledgePath is the path of the static Q&A knowledge file. A missing
	// file disables retrieval for the process lifetime instead of failing
	// startup.
	KnowledgePath string `json:"knowledge-path" mapstructure:"knowledge-path"`

	// TopK is the number of results returned from similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		KnowledgePath: "data/srec_qa.json",
		TopK:          3,
	}
}

// AddFlags adds flags for retrieval options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.KnowledgePath, options.Join(prefixes...)+"rag.knowledge-path", o.KnowledgePath, "Path of the Q&A knowledge JSON file.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"rag.top-k", o.TopK, "Number of results from similarity search.")
}

// Validate validates the retrieval options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.KnowledgePath == "" {
		errs = append(errs, fmt.Errorf("rag.knowledge-path cannot be empty"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("rag.top-k must be positive"))
	}

	return errs
}

// Complete completes the retrieval options with defaults.
func (o *Options) Complete() error {
	return nil
}
