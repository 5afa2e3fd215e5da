// Package app provides the campus chatbot server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/campus-chat/cmd/campus-chat/app/options"
	"github.com/kart-io/campus-chat/pkg/app"
)

const (
	// Name is the name of the application.
	Name = "campus-chat"

	// commandDesc is the description of the command.
	commandDesc = `Campus Chat Service

A retrieval-augmented conversational backend for the Sree Rama Engineering
College (SREC) campus assistant.

This server provides:
  - Streaming and non-streaming chat backed by an Ollama LLM
  - Keyword-routed retrieval over the campus Q&A knowledge base
  - Per-session conversation history with IST timestamps
  - Health and status endpoints for the frontend`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
