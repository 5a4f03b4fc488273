package site2pdf

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one renderer is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// rendererPool manages a pool of pageRenderer instances for parallel page
// rendering. Each rod renderer has its own browser, enabling true
// parallelism. Renderers are created lazily on first acquire to avoid
// startup delay.
type rendererPool struct {
	size      int
	factory   func() pageRenderer
	renderers []pageRenderer
	sem       chan pageRenderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// newRendererPool creates a pool with capacity for n renderers built by
// factory. Renderers are created lazily when acquired.
func newRendererPool(n int, factory func() pageRenderer) *rendererPool {
	if n < 1 {
		n = 1
	}

	return &rendererPool{
		size:      n,
		factory:   factory,
		renderers: make([]pageRenderer, 0, n),
		sem:       make(chan pageRenderer, n),
	}
}

// acquire gets a renderer from the pool, creating one if needed.
// Blocks if all renderers are in use.
func (p *rendererPool) acquire() pageRenderer {
	// Try to get an existing renderer (non-blocking)
	select {
	case r := <-p.sem:
		return r
	default:
	}

	// Check if we can create a new renderer
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new renderer outside the lock
		r := p.factory()

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()

		return r
	}
	p.mu.Unlock()

	// All renderers created, wait for one to be released
	return <-p.sem
}

// release returns a renderer to the pool.
// The lock is released before sending to avoid deadlock when the channel is full.
func (p *rendererPool) release(r pageRenderer) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- r
}

// close releases all browser resources.
// Returns an aggregated error if multiple renderers fail to close.
func (p *rendererPool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolvePoolSize determines the renderer pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
