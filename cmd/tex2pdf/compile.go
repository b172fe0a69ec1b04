package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
	flag "github.com/spf13/pflag"
)

// metaInput is the event metadata key carrying the source file.
const metaInput = "input"

// Sentinel errors for batch operations.
var (
	ErrReadSource   = errors.New("failed to read LaTeX source")
	ErrWritePDF     = errors.New("failed to write PDF file")
	ErrCompilerInit = errors.New("failed to acquire a compiler")
	ErrOutputDir    = errors.New("failed to create output directory")
)

// texCompiler is the part of *tex2pdf.Compiler the batch needs.
type texCompiler interface {
	Compile(ctx context.Context, req tex2pdf.CompileRequest) (*tex2pdf.Output, error)
}

var _ texCompiler = (*tex2pdf.Compiler)(nil)

// Pool abstracts compiler pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (texCompiler, error)
	Release(texCompiler)
	Size() int
}

// compilerPool adapts *tex2pdf.CompilerPool to Pool.
type compilerPool struct {
	*tex2pdf.CompilerPool
}

var _ Pool = compilerPool{}

func (p compilerPool) Acquire(ctx context.Context) (texCompiler, error) {
	return p.CompilerPool.Acquire(ctx)
}

func (p compilerPool) Release(c texCompiler) {
	if tc, ok := c.(*tex2pdf.Compiler); ok {
		p.CompilerPool.Release(tc)
	}
}

// CompileResult holds the outcome of a single document.
type CompileResult struct {
	InputPath  string
	OutputPath string
	Passes     int
	Err        error
	Duration   time.Duration
}

// batchError reports failed documents whose errors were already printed.
type batchError struct {
	Failed int
	Total  int
	First  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d compilation(s) failed", e.Failed, e.Total)
}

func (e *batchError) Unwrap() error { return e.First }

// isReported reports whether err was already printed with the results.
func isReported(err error) bool {
	var be *batchError
	return errors.As(err, &be)
}

func runCompileCmd(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseCompileFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return runCompile(ctx, inputs, flags, env)
}

func runCompile(ctx context.Context, inputs []string, flags *compileFlags, env *Environment) error {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	workers := flags.workers
	if !flags.changed["workers"] {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common, &flags.compiler, flags.changed, envCfg)
	if err != nil {
		return err
	}
	env.Config = cfg
	env.Logger = newLogger(env.Stderr, flags.common, cfg)

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	files, err := discoverFiles(inputs, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	loader, err := tex2pdf.NewAssetLoader(cfg.Templates.BasePath)
	if err != nil {
		return err
	}
	opts, err := compilerOptions(cfg, flags.compiler.keepWorkDir, env.Logger)
	if err != nil {
		return err
	}
	req := baseRequest(cfg, workspaceSetup(loader, cfg.Templates.Styles, flags.compiler.attach))

	poolSize := min(tex2pdf.ResolvePoolSize(workers), len(files))
	env.Logger.Debug("starting batch", "files", len(files), "workers", poolSize)
	pool := tex2pdf.NewCompilerPool(poolSize, opts...)
	defer pool.Close()

	results := compileBatch(ctx, compilerPool{pool}, files, req, env.Now)
	return printResults(results, flags.common.quiet, flags.common.verbose, env)
}

// compileBatch processes files concurrently using the compiler pool.
func compileBatch(ctx context.Context, pool Pool, files []FileToCompile, req tex2pdf.CompileRequest, now func() time.Time) []CompileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]CompileResult, len(files))
	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			c, err := pool.Acquire(ctx)
			if err != nil {
				// Mark the jobs this worker would have taken as failed.
				for idx := range jobs {
					results[idx] = CompileResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrCompilerInit, err),
					}
				}
				return
			}
			defer pool.Release(c)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = CompileResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = compileFile(ctx, c, files[idx], req, now)
			}
		}()
	}

	wg.Wait()
	return results
}

// compileFile compiles one document and moves the PDF to its output path.
func compileFile(ctx context.Context, c texCompiler, f FileToCompile, req tex2pdf.CompileRequest, now func() time.Time) (result CompileResult) {
	start := now()
	result = CompileResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { result.Duration = now().Sub(start) }()

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadSource, err)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrOutputDir, err)
		return result
	}

	req.Source = string(content)
	req.Metadata = map[string]string{metaInput: f.InputPath}

	out, err := c.Compile(ctx, req)
	if err != nil {
		result.Err = err
		return result
	}
	defer out.Release()

	result.Passes = out.Result().Passes
	if err := out.MoveTo(f.OutputPath); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return result
}
