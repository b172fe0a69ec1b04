package tex2pdf

import (
	"maps"
	"strings"
)

// DefaultCompilerPath is used when CompileRequest.CompilerPath is empty.
const DefaultCompilerPath = "pdflatex"

// SetupFunc prepares the workspace before the first compiler pass, for
// example by copying images, bibliographies or style files into workDir.
// baseName is the random stem shared by the source, aux, log and PDF files.
type SetupFunc func(workDir, baseName string) error

// CompileRequest describes one compilation.
// Build it with named fields; Compile copies it before use.
type CompileRequest struct {
	// Source is the LaTeX document, written verbatim to the workspace.
	Source string

	// CompilerPath is the compiler binary (name on PATH or absolute path).
	// Defaults to pdflatex.
	CompilerPath string

	// NonStopMode adds -interaction=nonstopmode. Without it the compiler may
	// wait for terminal input on error.
	NonStopMode bool

	// WaitForConvergence re-runs the compiler until the aux file stops
	// changing. When false exactly one pass runs.
	WaitForConvergence bool

	// Setup is called once with the workspace directory and base name.
	Setup SetupFunc

	// Metadata is passed through to notifier events.
	Metadata map[string]string
}

// clone returns a copy that shares nothing mutable with r.
func (r CompileRequest) clone() CompileRequest {
	c := r
	if r.Metadata != nil {
		c.Metadata = maps.Clone(r.Metadata)
	}
	if c.CompilerPath == "" {
		c.CompilerPath = DefaultCompilerPath
	}
	return c
}

// validate checks that required fields are present.
func (r CompileRequest) validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return ErrEmptySource
	}
	return nil
}
