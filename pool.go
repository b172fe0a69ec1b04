package tex2pdf

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent compiler processes; each LaTeX run is
	// memory and disk heavy.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the compiler's own helpers.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("compiler pool is closed")

// CompilerPool bounds the number of compiles running at once.
// Compilers are created lazily on first acquire, all with the same options.
type CompilerPool struct {
	size    int
	opts    []Option
	sem     chan *Compiler
	mu      sync.Mutex
	created int
	closed  bool
	done    chan struct{}
}

// NewCompilerPool creates a pool with capacity for n concurrent compiles.
func NewCompilerPool(n int, opts ...Option) *CompilerPool {
	if n < 1 {
		n = 1
	}

	return &CompilerPool{
		size: n,
		opts: opts,
		sem:  make(chan *Compiler, n),
		done: make(chan struct{}),
	}
}

// Acquire gets a compiler from the pool, creating one if needed.
// Blocks while all compilers are in use, until ctx is done or the pool closes.
func (p *CompilerPool) Acquire(ctx context.Context) (*Compiler, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	select {
	case c := <-p.sem:
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		return NewCompiler(p.opts...), nil
	}
	p.mu.Unlock()

	select {
	case c := <-p.sem:
		return c, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a compiler to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *CompilerPool) Release(c *Compiler) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- c
}

// Close stops handing out compilers and wakes blocked Acquire calls.
func (p *CompilerPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.done)
	}
	return nil
}

// Size returns the pool capacity.
func (p *CompilerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers in the CLI.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
