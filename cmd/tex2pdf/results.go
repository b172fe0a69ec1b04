package main

import (
	"errors"
	"fmt"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
	"github.com/alnah/go-tex2pdf/internal/config"
	"github.com/alnah/go-tex2pdf/internal/hints"
)

// ResultSummary holds the count of succeeded and failed compilations.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed compilations.
func countResults(results []CompileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs compilation results and returns a *batchError when
// any document failed.
func printResults(results []CompileResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var first error

	for _, r := range results {
		if r.Err != nil {
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, env))
			var compileErr *tex2pdf.CompileError
			if verbose && errors.As(r.Err, &compileErr) {
				fmt.Fprintf(env.Stderr, "--- compiler log ---\n%s\n", compileErr.Diagnostics)
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d passes, %v)\n",
				r.InputPath, r.OutputPath, r.Passes, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if summary.Failed > 0 {
		return &batchError{Failed: summary.Failed, Total: len(results), First: first}
	}
	return nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, env *Environment) string {
	var compileErr *tex2pdf.CompileError
	switch {
	case errors.Is(err, tex2pdf.ErrCompilerNotFound):
		return hints.ForCompilerNotFound(env.Config.Compiler.Path)
	case errors.Is(err, tex2pdf.ErrTimeout):
		return hints.ForTimeout()
	case errors.Is(err, tex2pdf.ErrConvergenceTimeout):
		return hints.ForConvergence()
	case errors.As(err, &compileErr):
		return hints.ForCompileError(compileErr.Diagnostics)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, tex2pdf.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(availableTemplates(env.Config.Templates.BasePath))
	case errors.Is(err, ErrOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// templateLister is implemented by loaders from tex2pdf.NewAssetLoader.
type templateLister interface {
	ListTemplates() ([]string, error)
}

func availableTemplates(basePath string) []string {
	loader, err := tex2pdf.NewAssetLoader(basePath)
	if err != nil {
		return nil
	}
	lister, ok := loader.(templateLister)
	if !ok {
		return nil
	}
	names, err := lister.ListTemplates()
	if err != nil {
		return nil
	}
	return names
}
