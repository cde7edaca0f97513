package shell

import (
	"sync/atomic"

	"github.com/atomicstack/renderloop/internal/logging/events"
)

// WorkKind tags a queued work item.
type WorkKind int

const (
	WorkInit WorkKind = iota
	WorkReset
	WorkUser
)

func (k WorkKind) String() string {
	switch k {
	case WorkInit:
		return "init"
	case WorkReset:
		return "reset"
	case WorkUser:
		return "user"
	default:
		return "unknown"
	}
}

// WorkItem is a unit of work for the render thread. The App it runs against
// is bound when the item is queued.
type WorkItem struct {
	Kind WorkKind
	App  *App

	run  func(*App)
	done atomic.Bool
}

// Execute runs the item. Only the first call has any effect.
func (w *WorkItem) Execute() {
	if w.done.Swap(true) {
		return
	}
	w.run(w.App)
}

// Executed reports whether Execute has been called.
func (w *WorkItem) Executed() bool {
	return w.done.Load()
}

// Post queues fn to run on the render thread before the next frame. It is
// safe to call from any goroutine, including from queued work, which then
// runs before the frame after. Work queued after the render thread stopped
// never runs.
func (a *App) Post(fn func(*App)) {
	if fn == nil {
		return
	}
	a.push(WorkUser, fn)
}

// Schedule queues fn to run on the render thread with payload.
func Schedule[T any](a *App, payload T, fn func(*App, T)) {
	if fn == nil {
		return
	}
	a.push(WorkUser, func(app *App) { fn(app, payload) })
}

func (a *App) push(kind WorkKind, run func(*App)) {
	item := &WorkItem{Kind: kind, App: a, run: run}
	a.pushMu.Lock()
	a.queue.Push(item)
	depth := a.queue.Len()
	a.pushMu.Unlock()
	events.Queue.Push(kind.String(), depth)
}

// drain runs the items queued when it starts. Items queued while draining
// wait for the next drain, so work that re-posts itself runs once per frame.
// Render thread only.
func (a *App) drain() int {
	n := a.queue.Len()
	for i := 0; i < n; i++ {
		item, ok := a.queue.Pop()
		if !ok {
			return i
		}
		item.Execute()
	}
	return n
}
