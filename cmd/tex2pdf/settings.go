package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tex2pdf "github.com/alnah/go-tex2pdf"
	"github.com/alnah/go-tex2pdf/internal/config"
	"github.com/alnah/go-tex2pdf/internal/logging"
)

const dirPermissions = 0o750 // rwxr-x---

// resolveConfig loads the config file, then overlays env vars and flags.
func resolveConfig(common commonFlags, cf *compilerFlags, changed map[string]bool, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeCompilerFlags(cf, changed, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeCompilerFlags copies explicitly set flags into cfg. CLI values win.
func mergeCompilerFlags(f *compilerFlags, changed map[string]bool, cfg *config.Config) {
	if changed["compiler"] {
		cfg.Compiler.Path = f.path
	}
	if f.noNonStop {
		cfg.Compiler.NonStopMode = false
	}
	if f.singlePass {
		cfg.Compiler.WaitForConvergence = false
	}
	if changed["max-passes"] {
		cfg.Compiler.MaxPasses = f.maxPasses
	}
	if changed["timeout"] {
		cfg.Compiler.Timeout = f.timeout
	}
	if changed["work-dir"] {
		cfg.Workspace.Dir = f.workDir
	}
	if changed["template-path"] {
		cfg.Templates.BasePath = f.templatePath
	}
	if len(f.styles) > 0 {
		cfg.Templates.Styles = f.styles
	}
}

// newLogger builds the CLI logger. --verbose and --quiet override the
// configured level.
func newLogger(w io.Writer, common commonFlags, cfg *config.Config) *slog.Logger {
	level := logging.ParseLevel(cfg.Log.Level)
	switch {
	case common.verbose:
		level = logging.LevelDebug
	case common.quiet:
		level = logging.LevelError
	}
	return logging.New(w, level, logging.ParseFormat(cfg.Log.Format))
}

// compilerOptions translates cfg into library options.
func compilerOptions(cfg *config.Config, keepWorkDir bool, logger *slog.Logger) ([]tex2pdf.Option, error) {
	opts := []tex2pdf.Option{
		tex2pdf.WithLogger(logger),
		tex2pdf.WithNotifier(newLogNotifier(logger)),
	}

	timeout, err := cfg.Compiler.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, tex2pdf.WithTimeout(timeout))
	}
	if cfg.Compiler.MaxPasses > 0 {
		opts = append(opts, tex2pdf.WithMaxPasses(cfg.Compiler.MaxPasses))
	}
	if dir := cfg.Workspace.Dir; dir != "" {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("creating work directory: %w", err)
		}
		opts = append(opts, tex2pdf.WithWorkDir(dir))
	}
	if keepWorkDir {
		opts = append(opts, tex2pdf.WithKeepWorkDir())
	}
	return opts, nil
}

// baseRequest returns the request shared by every document of a run.
func baseRequest(cfg *config.Config, setup tex2pdf.SetupFunc) tex2pdf.CompileRequest {
	return tex2pdf.CompileRequest{
		CompilerPath:       cfg.Compiler.Path,
		NonStopMode:        cfg.Compiler.NonStopMode,
		WaitForConvergence: cfg.Compiler.WaitForConvergence,
		Setup:              setup,
	}
}

// workspaceSetup copies configured styles and attached files into each
// workspace. Returns nil when there is nothing to copy.
func workspaceSetup(loader tex2pdf.AssetLoader, styles, attach []string) tex2pdf.SetupFunc {
	var fns []tex2pdf.SetupFunc
	if len(styles) > 0 {
		fns = append(fns, tex2pdf.StyleSetup(loader, styles...))
	}
	if len(attach) > 0 {
		fns = append(fns, tex2pdf.CopyFilesSetup(attach...))
	}
	if len(fns) == 0 {
		return nil
	}
	return tex2pdf.ChainSetup(fns...)
}
