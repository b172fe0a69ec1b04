package tex2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-tex2pdf/internal/assets"
	"github.com/alnah/go-tex2pdf/internal/logging"
	"github.com/alnah/go-tex2pdf/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ commandRunner = execRunner{}
	_ Renderer      = (*render.Renderer)(nil)
	_ Notifier      = NotifierFunc(nil)
)

// tempDirPattern names compiler-created workspace directories.
const tempDirPattern = "tex2pdf-*"

// Compiler turns LaTeX source into PDF by driving an external compiler.
// A Compiler holds no per-compile state and is safe for concurrent use.
type Compiler struct {
	cfg      compilerConfig
	runner   commandRunner
	invoker  *compilerInvoker
	renderer Renderer
	notifier Notifier
	logger   *slog.Logger
}

// NewCompiler creates a Compiler with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithMaxPasses).
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		cfg: compilerConfig{
			timeout:   defaultTimeout,
			maxPasses: defaultMaxPasses,
		},
		runner: execRunner{},
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.renderer == nil {
		c.renderer = render.New(assets.NewEmbeddedLoader())
	}
	c.invoker = &compilerInvoker{runner: c.runner, timeout: c.cfg.timeout}

	return c
}

// Compile writes req.Source into a fresh workspace and runs the compiler
// until the aux file converges (or once, without WaitForConvergence).
// Intermediates are removed before returning. On success the caller owns the
// returned Output and must Release it once delivered.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Compiler) Compile(ctx context.Context, req CompileRequest) (out *Output, err error) {
	start := time.Now()
	req = req.clone()

	defer func() {
		c.report(req, out, err, time.Since(start))
	}()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return c.compile(ctx, req)
}

// RenderAndCompile renders the named template with data and compiles the
// result. req.Source is ignored. A missing template yields an error matching
// ErrTemplateNotFound before any compiler runs.
func (c *Compiler) RenderAndCompile(ctx context.Context, template string, data any, req CompileRequest) (*Output, error) {
	source, err := c.renderer.Render(ctx, template, data)
	if err != nil {
		err = fmt.Errorf("rendering template %q: %w", template, err)
		c.report(req.clone(), nil, err, 0)
		return nil, err
	}
	req.Source = source
	return c.Compile(ctx, req)
}

func (c *Compiler) compile(ctx context.Context, req CompileRequest) (out *Output, err error) {
	dir, ownedDir, err := c.workspaceDir()
	if err != nil {
		return nil, err
	}

	ws, err := provisionWorkspace(dir)
	if err != nil {
		c.removeDir(ownedDir)
		return nil, err
	}
	logger := c.logger.With("base_name", ws.BaseName)
	logger.Debug("workspace provisioned", "work_dir", ws.WorkDir)

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("internal error: %v", r)
		}
		ws.cleanupIntermediates(logger)
		if err == nil {
			return
		}
		if rmErr := ws.removeOutput(); rmErr != nil {
			logger.Warn("removing partial output", "error", rmErr)
		}
		if c.cfg.keepWorkDir && ownedDir != "" {
			logger.Info("keeping workspace directory", "work_dir", ownedDir)
			return
		}
		c.removeDir(ownedDir)
	}()

	if err := ws.materialize(req.Source); err != nil {
		return nil, err
	}

	if req.Setup != nil {
		if err := req.Setup(ws.WorkDir, ws.BaseName); err != nil {
			return nil, &SetupError{Err: err}
		}
	}

	result, err := c.runPasses(ctx, ws, req)
	if err != nil {
		return nil, err
	}
	if err := ws.checkOutput(); err != nil {
		return nil, err
	}

	logger.Debug("compile converged", "passes", result.Passes)
	return &Output{path: ws.OutputPath, result: *result, ownedDir: ownedDir}, nil
}

// workspaceDir returns the directory for a new workspace. Without
// WithWorkDir a temporary directory is created and reported as owned.
func (c *Compiler) workspaceDir() (dir, owned string, err error) {
	if c.cfg.workDir != "" {
		return c.cfg.workDir, "", nil
	}
	tmp, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return "", "", &IOError{Op: "provision", Path: os.TempDir(), Err: err}
	}
	return tmp, tmp, nil
}

func (c *Compiler) removeDir(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		c.logger.Warn("removing workspace directory", "path", dir, "error", err)
	}
}

// report logs the outcome and forwards it to the notifier.
func (c *Compiler) report(req CompileRequest, out *Output, err error, elapsed time.Duration) {
	ev := Event{
		Kind:     EventCompileSucceeded,
		Duration: elapsed,
		Metadata: req.Metadata,
	}
	if out != nil {
		ev.OutputPath = out.Path()
		ev.Passes = out.result.Passes
	}
	if err != nil {
		ev.Kind = EventCompileFailed
		ev.Err = err
		ev.Passes = failedPasses(err)
		c.logger.Debug("compile failed", "error", err, "duration", elapsed)
	} else {
		c.logger.Info("compile succeeded", "passes", ev.Passes, "duration", elapsed)
	}
	notify(c.notifier, c.logger, ev)
}

// failedPasses extracts the pass count carried by loop errors.
func failedPasses(err error) int {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return compileErr.Pass
	}
	var convErr *ConvergenceError
	if errors.As(err, &convErr) {
		return convErr.Passes
	}
	return 0
}
