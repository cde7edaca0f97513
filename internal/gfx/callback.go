package gfx

import (
	"sync"

	"github.com/atomicstack/renderloop/internal/logging"
	"github.com/atomicstack/renderloop/internal/logging/events"
)

// traceCallback forwards diagnostics to the trace log.
type traceCallback struct{}

// DefaultCallback returns the callback Init uses when none is given.
func DefaultCallback() Callback {
	return traceCallback{}
}

func (traceCallback) Fatal(code FatalCode, err error) {
	logging.Error(err)
	events.Render.Fatal(code.String(), err)
}

func (traceCallback) Trace(msg string) {
	events.Render.Message(msg)
}

// poolAllocator recycles cell buffers between frames.
type poolAllocator struct {
	pool sync.Pool
}

func newPoolAllocator() *poolAllocator {
	return &poolAllocator{}
}

func (a *poolAllocator) Alloc(n int) []Cell {
	if v, ok := a.pool.Get().(*[]Cell); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]Cell, n)
}

func (a *poolAllocator) Free(cells []Cell) {
	if cells == nil {
		return
	}
	a.pool.Put(&cells)
}
