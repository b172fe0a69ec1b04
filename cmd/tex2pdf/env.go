package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-tex2pdf/internal/config"
	"github.com/alnah/go-tex2pdf/internal/logging"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	// Environ lists NAME=value pairs, used to spot misspelled variables.
	Environ func() []string

	// Set once the command's configuration is resolved.
	Config *config.Config
	Logger *slog.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Config:  config.DefaultConfig(),
		Logger:  logging.Discard(),
	}
}
