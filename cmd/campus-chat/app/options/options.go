// Package options contains flags and options for initializing the chatbot server.
package options

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	chatbot "github.com/kart-io/campus-chat/internal/chatbot"
	cliflag "github.com/kart-io/campus-chat/pkg/app/cliflag"
	historyopts "github.com/kart-io/campus-chat/pkg/options/history"
	llmopts "github.com/kart-io/campus-chat/pkg/options/llm"
	logopts "github.com/kart-io/campus-chat/pkg/options/logger"
	middlewareopts "github.com/kart-io/campus-chat/pkg/options/middleware"
	ragopts "github.com/kart-io/campus-chat/pkg/options/rag"
	httpopts "github.com/kart-io/campus-chat/pkg/options/server/http"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions contains chat provider configuration.
	ChatOptions *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// GenerationOptions contains LLM generation parameters.
	GenerationOptions *llmopts.GenerationOptions `json:"generation" mapstructure:"generation"`

	// RAGOptions contains retrieval configuration.
	RAGOptions *ragopts.Options `json:"rag" mapstructure:"rag"`

	// HistoryOptions contains conversation history configuration.
	HistoryOptions *historyopts.Options `json:"history" mapstructure:"history"`

	// CORSOptions contains CORS middleware configuration.
	CORSOptions *middlewareopts.CORSOptions `json:"cors" mapstructure:"cors"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:       httpopts.NewOptions(),
		LogOptions:        logopts.NewOptions(),
		EmbeddingOptions:  llmopts.NewEmbeddingOptions(),
		ChatOptions:       llmopts.NewChatOptions(),
		GenerationOptions: llmopts.NewGenerationOptions(),
		RAGOptions:        ragopts.NewOptions(),
		HistoryOptions:    historyopts.NewOptions(),
		CORSOptions:       middlewareopts.NewCORSOptions(),
		ShutdownTimeout:   30 * time.Second,
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"), "embedding")
	o.ChatOptions.AddFlags(fss.FlagSet("chat"), "chat")
	o.GenerationOptions.AddFlags(fss.FlagSet("generation"), "generation")
	o.RAGOptions.AddFlags(fss.FlagSet("rag"))
	o.HistoryOptions.AddFlags(fss.FlagSet("history"))
	o.CORSOptions.AddFlags(fss.FlagSet("cors"))

	// misc flags
	fs := fss.FlagSet("misc")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")

	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return err
	}
	if err := o.EmbeddingOptions.Complete(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := o.ChatOptions.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := o.RAGOptions.Complete(); err != nil {
		return fmt.Errorf("rag: %w", err)
	}
	if err := o.HistoryOptions.Complete(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := o.CORSOptions.Complete(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HTTPOptions.Validate()...)
	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.ChatOptions.Validate()...)
	errs = append(errs, o.GenerationOptions.Validate()...)
	errs = append(errs, o.RAGOptions.Validate()...)
	errs = append(errs, o.HistoryOptions.Validate()...)
	errs = append(errs, o.CORSOptions.Validate()...)

	return utilerrors.NewAggregate(errs)
}

// Config builds a chatbot.Config based on ServerOptions.
func (o *ServerOptions) Config() (*chatbot.Config, error) {
	return &chatbot.Config{
		HTTPOptions:       o.HTTPOptions,
		LogOptions:        o.LogOptions,
		EmbeddingOptions:  o.EmbeddingOptions,
		ChatOptions:       o.ChatOptions,
		GenerationOptions: o.GenerationOptions,
		RAGOptions:        o.RAGOptions,
		HistoryOptions:    o.HistoryOptions,
		CORSOptions:       o.CORSOptions,
		ShutdownTimeout:   o.ShutdownTimeout,
	}, nil
}
