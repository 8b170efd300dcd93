package cache

import (
	"sync"

	"codeberg.org/tessen/smcmon/internal/logger"
)

// Releaser is anything with a terminal, idempotent Release.
type Releaser interface {
	Release()
}

// Pool holds at most one live native handle per resource class. Storing a
// new handle for a class releases the previous one first, and Cleanup
// releases everything. All mutation goes through one lock so a release can
// never race a store of the same class.
type Pool struct {
	mu      sync.Mutex
	handles map[string]Releaser
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{handles: make(map[string]Releaser)}
}

var shared = NewPool()

// Shared returns the process-wide pool. It is created on first use and torn
// down once at shutdown via Cleanup.
func Shared() *Pool {
	return shared
}

// Store registers handle under class, releasing any previous holder of the
// class before the new handle becomes visible.
func (p *Pool) Store(class string, handle Releaser) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.handles[class]; ok {
		prev.Release()
	}
	p.handles[class] = handle
}

// Get returns the live handle for class, if any.
func (p *Pool) Get(class string) (Releaser, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, ok := p.handles[class]
	return h, ok
}

// Cleanup releases every stored handle. Safe to call redundantly; a second
// call finds nothing to release.
func (p *Pool) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for class, h := range p.handles {
		h.Release()
		delete(p.handles, class)
		logger.Debug().Str("class", class).Msg("Pooled handle released")
	}
}
