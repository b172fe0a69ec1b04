package tex2pdf

import (
	"log/slog"
	"time"
)

// Option configures a Compiler.
type Option func(*Compiler)

// compilerConfig holds internal configuration for Compiler.
type compilerConfig struct {
	timeout     time.Duration
	maxPasses   int
	workDir     string
	keepWorkDir bool
}

// Defaults used when no option overrides them.
const (
	defaultTimeout   = 2 * time.Minute
	defaultMaxPasses = 10

	// MaxPassesLimit bounds WithMaxPasses.
	MaxPassesLimit = 100
)

// WithTimeout sets the time budget of a single compiler invocation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("tex2pdf: WithTimeout duration must be positive")
	}
	return func(c *Compiler) {
		c.cfg.timeout = d
	}
}

// WithMaxPasses caps the number of compiler runs when waiting for convergence.
// Panics if n is outside [1, MaxPassesLimit].
func WithMaxPasses(n int) Option {
	if n < 1 || n > MaxPassesLimit {
		panic("tex2pdf: WithMaxPasses must be between 1 and 100")
	}
	return func(c *Compiler) {
		c.cfg.maxPasses = n
	}
}

// WithWorkDir sets the directory in which workspaces are created.
// The directory must exist. By default each compile gets its own
// temporary directory.
func WithWorkDir(dir string) Option {
	if dir == "" {
		panic("tex2pdf: WithWorkDir requires a directory")
	}
	return func(c *Compiler) {
		c.cfg.workDir = dir
	}
}

// WithKeepWorkDir keeps a compiler-created temporary directory after a
// failed compile so the intermediates can be inspected. Source, aux and log
// files are still removed.
func WithKeepWorkDir() Option {
	return func(c *Compiler) {
		c.cfg.keepWorkDir = true
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("tex2pdf: WithLogger requires a non-nil logger")
	}
	return func(c *Compiler) {
		c.logger = l
	}
}

// WithRenderer sets the template renderer used by RenderAndCompile.
func WithRenderer(r Renderer) Option {
	if r == nil {
		panic("tex2pdf: WithRenderer requires a non-nil renderer")
	}
	return func(c *Compiler) {
		c.renderer = r
	}
}

// WithNotifier sets the receiver of compile success and failure events.
func WithNotifier(n Notifier) Option {
	if n == nil {
		panic("tex2pdf: WithNotifier requires a non-nil notifier")
	}
	return func(c *Compiler) {
		c.notifier = n
	}
}

// withRunner replaces the process runner. Used by tests.
func withRunner(r commandRunner) Option {
	return func(c *Compiler) {
		c.runner = r
	}
}
