package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-tex2pdf/internal/config"
)

const envPrefix = "TEX2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // TEX2PDF_CONFIG: config name or path
	Compiler     string        // TEX2PDF_COMPILER: compiler executable
	Timeout      time.Duration // TEX2PDF_TIMEOUT: per-run timeout
	MaxPasses    int           // TEX2PDF_MAX_PASSES: convergence cap
	Workers      int           // TEX2PDF_WORKERS: parallel compilers
	TemplatePath string        // TEX2PDF_TEMPLATE_PATH: custom asset directory
	WorkDir      string        // TEX2PDF_WORK_DIR: workspace directory
	OutputDir    string        // TEX2PDF_OUTPUT_DIR: default output directory
	LogLevel     string        // TEX2PDF_LOG_LEVEL: debug, info, warn, error
	LogFormat    string        // TEX2PDF_LOG_FORMAT: text, json
}

// knownEnvVars lists valid TEX2PDF_* environment variables.
var knownEnvVars = map[string]bool{
	"TEX2PDF_CONFIG":        true,
	"TEX2PDF_COMPILER":      true,
	"TEX2PDF_TIMEOUT":       true,
	"TEX2PDF_MAX_PASSES":    true,
	"TEX2PDF_WORKERS":       true,
	"TEX2PDF_TEMPLATE_PATH": true,
	"TEX2PDF_WORK_DIR":      true,
	"TEX2PDF_OUTPUT_DIR":    true,
	"TEX2PDF_LOG_LEVEL":     true,
	"TEX2PDF_LOG_FORMAT":    true,
	"TEX2PDF_CONTAINER":     true, // read by doctor
}

// loadEnvConfig reads TEX2PDF_* variables through getenv.
// Malformed or non-positive numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:   getenv("TEX2PDF_CONFIG"),
		Compiler:     getenv("TEX2PDF_COMPILER"),
		TemplatePath: getenv("TEX2PDF_TEMPLATE_PATH"),
		WorkDir:      getenv("TEX2PDF_WORK_DIR"),
		OutputDir:    getenv("TEX2PDF_OUTPUT_DIR"),
		LogLevel:     getenv("TEX2PDF_LOG_LEVEL"),
		LogFormat:    getenv("TEX2PDF_LOG_FORMAT"),
	}

	if timeout := getenv("TEX2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	cfg.MaxPasses = positiveInt(getenv("TEX2PDF_MAX_PASSES"))
	cfg.Workers = positiveInt(getenv("TEX2PDF_WORKERS"))

	return cfg
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 0
}

// warnUnknownEnvVars prints a warning for each unrecognized TEX2PDF_* variable.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set environment values onto cfg.
// Order of precedence: CLI flags > env vars > config file > defaults
// (flags are applied afterwards by mergeCompilerFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Compiler != "" {
		cfg.Compiler.Path = env.Compiler
	}
	if env.Timeout > 0 {
		cfg.Compiler.Timeout = env.Timeout.String()
	}
	if env.MaxPasses > 0 {
		cfg.Compiler.MaxPasses = env.MaxPasses
	}
	if env.TemplatePath != "" {
		cfg.Templates.BasePath = env.TemplatePath
	}
	if env.WorkDir != "" {
		cfg.Workspace.Dir = env.WorkDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
