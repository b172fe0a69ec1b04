package main

import (
	"errors"
	"os"

	tex2pdf "github.com/alnah/go-tex2pdf"
	"github.com/alnah/go-tex2pdf/internal/config"
	"github.com/alnah/go-tex2pdf/internal/render"
	"github.com/alnah/go-tex2pdf/internal/yamlutil"
)

// Exit codes for the tex2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents compiled
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, template, or request
	ExitIO      = 3 // File not found, permission denied, workspace I/O
	ExitCompile = 4 // Compiler failure, timeout, or no convergence
)

// ErrUsage marks command-line parsing failures.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 4)
	if errors.Is(err, tex2pdf.ErrCompile) ||
		errors.Is(err, tex2pdf.ErrTimeout) ||
		errors.Is(err, tex2pdf.ErrConvergenceTimeout) ||
		errors.Is(err, tex2pdf.ErrCompilerNotFound) {
		return ExitCompile
	}

	// Usage/config/validation errors (exit 2).
	// Checked before I/O: a missing style surfaces wrapped in a setup error.
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, tex2pdf.ErrEmptySource) ||
		errors.Is(err, tex2pdf.ErrTemplateNotFound) ||
		errors.Is(err, tex2pdf.ErrStyleNotFound) ||
		errors.Is(err, tex2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrOutputConflict) ||
		errors.Is(err, ErrMissingTemplate) ||
		errors.Is(err, ErrDataParse) ||
		errors.Is(err, render.ErrTemplateParse) ||
		errors.Is(err, render.ErrTemplateExecute) ||
		errors.Is(err, yamlutil.ErrInputTooLarge) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, tex2pdf.ErrIO) ||
		errors.Is(err, tex2pdf.ErrSetup) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoTexFiles) {
		return ExitIO
	}

	return ExitGeneral
}
