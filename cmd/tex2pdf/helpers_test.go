package main

// Notes:
// - Shared test infrastructure: an Environment over buffers and a fake
//   process environment, plus fake compilers and pools for batch tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
	"github.com/alnah/go-tex2pdf/internal/config"
	"github.com/alnah/go-tex2pdf/internal/logging"
)

// ---------------------------------------------------------------------------
// Environment helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment whose process environment is vars.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    time.Now,
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Config: config.DefaultConfig(),
		Logger: logging.Discard(),
	}
	return env, &stdout, &stderr
}

// writeFile creates path (and its parents) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// Fake compiler and pool
// ---------------------------------------------------------------------------

// fakeCompiler records every request and fails with err. Outputs cannot be
// built outside the library, so success paths use fakeCompilerScript.
type fakeCompiler struct {
	mu   sync.Mutex
	reqs []tex2pdf.CompileRequest
	err  error
}

func (f *fakeCompiler) Compile(_ context.Context, req tex2pdf.CompileRequest) (*tex2pdf.Output, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return nil, f.err
}

// fakePool hands out the same compiler to every worker.
type fakePool struct {
	c          texCompiler
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (p *fakePool) Acquire(context.Context) (texCompiler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.c, nil
}

func (p *fakePool) Release(texCompiler) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *fakePool) Size() int { return p.size }
