package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-tex2pdf/internal/fileutil"
	"github.com/alnah/go-tex2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Defaults applied by DefaultConfig.
const (
	DefaultCompilerPath = "pdflatex"
	DefaultMaxPasses    = 10
	DefaultTimeout      = "2m"
)

// Field limits.
const (
	MaxPathLength      = 4096
	MaxStyleNameLength = 64
	MaxPassesLimit     = 100
	MaxStyles          = 32
)

// Config holds all configuration for the tex2pdf CLI.
type Config struct {
	Compiler  CompilerConfig  `yaml:"compiler"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Templates TemplatesConfig `yaml:"templates"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// CompilerConfig defines how the LaTeX compiler is invoked.
type CompilerConfig struct {
	Path               string `yaml:"path"`
	NonStopMode        bool   `yaml:"nonStopMode"`
	WaitForConvergence bool   `yaml:"waitForConvergence"`
	MaxPasses          int    `yaml:"maxPasses"`
	Timeout            string `yaml:"timeout"` // Go duration, e.g. "90s"
}

// WorkspaceConfig defines where scratch files are created.
type WorkspaceConfig struct {
	Dir string `yaml:"dir"` // Empty = fresh temp dir per compile
}

// TemplatesConfig defines template and style lookup.
type TemplatesConfig struct {
	BasePath string   `yaml:"basePath"` // Empty = embedded assets only
	Styles   []string `yaml:"styles"`   // Styles copied into every workspace
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the source
}

// LogConfig defines diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TimeoutDuration parses Compiler.Timeout. An empty value yields zero.
func (c *CompilerConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: compiler.timeout %q: %v", ErrInvalidField, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: compiler.timeout must be positive, got %s", ErrInvalidField, c.Timeout)
	}
	return d, nil
}

// Validate checks field values and lengths.
// Called by LoadConfig, but available for callers who build a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("compiler.path", c.Compiler.Path, MaxPathLength); err != nil {
		return err
	}
	if c.Compiler.MaxPasses < 0 || c.Compiler.MaxPasses > MaxPassesLimit {
		return fmt.Errorf("%w: compiler.maxPasses must be between 1 and %d, got %d",
			ErrInvalidField, MaxPassesLimit, c.Compiler.MaxPasses)
	}
	if _, err := c.Compiler.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("workspace.dir", c.Workspace.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("templates.basePath", c.Templates.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	if len(c.Templates.Styles) > MaxStyles {
		return fmt.Errorf("%w: templates.styles has %d entries (max %d)", ErrInvalidField, len(c.Templates.Styles), MaxStyles)
	}
	for i, name := range c.Templates.Styles {
		if err := validateFieldLength(fmt.Sprintf("templates.styles[%d]", i), name, MaxStyleNameLength); err != nil {
			return err
		}
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidField, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "text", "json":
		default:
			return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidField, c.Log.Format)
		}
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Path:               DefaultCompilerPath,
			NonStopMode:        true,
			WaitForConvergence: true,
			MaxPasses:          DefaultMaxPasses,
			Timeout:            DefaultTimeout,
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := yamlutil.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-tex2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-tex2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
