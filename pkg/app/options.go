package app

import (
	"github.com/kart-io/campus-chat/pkg/app/cliflag"
)

// CliOptions is the interface for server option aggregates used with App.
type CliOptions interface {
	// Flags returns the flags grouped by section.
	Flags() cliflag.NamedFlagSets
	// Validate validates the options.
	Validate() error
	// Complete completes the options with defaults.
	Complete() error
}
