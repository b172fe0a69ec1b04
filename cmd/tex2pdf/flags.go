package main

import (
	"os"
	"slices"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// compilerFlags holds flags that tune the compile loop.
type compilerFlags struct {
	path         string
	noNonStop    bool
	singlePass   bool
	maxPasses    int
	timeout      string
	workDir      string
	keepWorkDir  bool
	templatePath string
	styles       []string
	attach       []string
}

// compileFlags holds all flags for the compile command.
type compileFlags struct {
	common   commonFlags
	compiler compilerFlags
	output   string
	workers  int
	changed  map[string]bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	compiler  compilerFlags
	output    string
	data      string
	codeStyle string
	changed   map[string]bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output and debug logs")
}

func addCompilerFlags(fs *flag.FlagSet, f *compilerFlags) {
	fs.StringVar(&f.path, "compiler", "", "LaTeX compiler executable (default pdflatex)")
	fs.BoolVar(&f.noNonStop, "no-nonstop", false, "do not pass -interaction=nonstopmode")
	fs.BoolVar(&f.singlePass, "single-pass", false, "run the compiler once, skip convergence")
	fs.IntVar(&f.maxPasses, "max-passes", 0, "maximum compiler runs per document")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-run compiler timeout (e.g., 90s, 2m)")
	fs.StringVar(&f.workDir, "work-dir", "", "directory for workspaces (default: fresh temp dir)")
	fs.BoolVar(&f.keepWorkDir, "keep-workdir", false, "keep the temp dir of a failed compile")
	fs.StringVar(&f.templatePath, "template-path", "", "directory with templates/ and styles/")
	fs.StringSliceVar(&f.styles, "style", nil, "LaTeX style copied into the workspace (repeatable)")
	fs.StringSliceVar(&f.attach, "attach", nil, "file copied into the workspace, e.g. images (repeatable)")
}

// changedFlags records which flags were set on the command line, so that
// zero values can still override the config file.
func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { changed[f.Name] = true })
	return changed
}

func parseCompileFlags(args []string) (*compileFlags, []string, error) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	f := &compileFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel compilers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addCompilerFlags(fs, &f.compiler)

	fs.Usage = func() { printCompileUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default <template>.pdf)")
	fs.StringVarP(&f.data, "data", "d", "", "YAML file with template data")
	fs.StringVar(&f.codeStyle, "code-style", "", "chroma style for fenced code blocks")
	addCommonFlags(fs, &f.common)
	addCompilerFlags(fs, &f.compiler)

	fs.Usage = func() { printRenderUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// hasVerboseFlag reports whether -v or --verbose appears before any "--".
// main needs it before a subcommand parses its flags.
func hasVerboseFlag(args []string) bool {
	if i := slices.Index(args, "--"); i >= 0 {
		args = args[:i]
	}
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
