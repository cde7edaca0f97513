// Package backend samples process statistics off the render thread.
package backend

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/atomicstack/renderloop/internal/throttle"
)

// Kind represents the type of data emitted by the watcher.
type Kind int

const (
	KindRuntime Kind = iota
	KindMemory
)

func (k Kind) String() string {
	switch k {
	case KindRuntime:
		return "runtime"
	case KindMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Event conveys a sample or an error from a poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// RuntimeSnapshot describes the Go runtime.
type RuntimeSnapshot struct {
	Goroutines int
	CPUs       int
	GoVersion  string
}

// MemorySnapshot is a subset of runtime.MemStats.
type MemorySnapshot struct {
	HeapAlloc   uint64
	HeapObjects uint64
	Sys         uint64
	NumGC       uint32
}

// Source produces one sample.
type Source func(ctx context.Context) (interface{}, error)

// Watcher polls its sources at a fixed interval and publishes events.
type Watcher struct {
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
	done   chan struct{}
}

// NewWatcher creates a watcher sampling the runtime every interval.
func NewWatcher(interval time.Duration) *Watcher {
	return NewWatcherWithSources(interval, map[Kind]Source{
		KindRuntime: SampleRuntime,
		KindMemory:  SampleMemory,
	})
}

// NewWatcherWithSources creates a watcher polling the given sources.
func NewWatcherWithSources(interval time.Duration, sources map[Kind]Source) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}

	for kind, source := range sources {
		th := throttle.New(interval / 4)
		w.wg.Add(1)
		go w.poll(kind, func(ctx context.Context) (interface{}, error) {
			th.Wait()
			return source(ctx)
		})
	}

	go func() {
		w.wg.Wait()
		close(w.events)
		close(w.done)
	}()

	return w
}

// Events returns a channel of samples. It is closed once every poller has
// exited after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current sample.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all pollers have exited and the events channel is closed.
func (w *Watcher) Wait() {
	<-w.done
}

func (w *Watcher) poll(kind Kind, fetch Source) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}

// SampleRuntime reports goroutine and CPU counts.
func SampleRuntime(context.Context) (interface{}, error) {
	return RuntimeSnapshot{
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
		GoVersion:  runtime.Version(),
	}, nil
}

// SampleMemory reads heap statistics.
func SampleMemory(context.Context) (interface{}, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemorySnapshot{
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		Sys:         ms.Sys,
		NumGC:       ms.NumGC,
	}, nil
}
