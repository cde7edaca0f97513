// Package thread runs functions on dedicated, locked OS threads.
package thread

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Func is the body of a thread. It returns a status code and an error.
type Func func() (int, error)

// PanicError is returned by Join when the thread body panicked.
type PanicError struct {
	Name  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("thread %s panicked: %v", e.Name, e.Value)
}

// Unwrap exposes a panic value that was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Thread is a running thread body. It is joined exactly once by Join.
type Thread struct {
	name   string
	group  errgroup.Group
	done   chan struct{}
	status int
}

// Start runs fn on a new goroutine locked to its own OS thread. The OS thread
// is never unlocked, so it is discarded when fn returns.
func Start(name string, fn Func) *Thread {
	t := &Thread{name: name, done: make(chan struct{})}
	t.group.Go(func() (err error) {
		runtime.LockOSThread()
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.status = -1
				err = &PanicError{Name: name, Value: r, Stack: debug.Stack()}
			}
		}()
		t.status, err = fn()
		return err
	})
	return t
}

// Name returns the name given to Start.
func (t *Thread) Name() string {
	return t.name
}

// Done is closed once the thread body has returned.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Exited reports whether the thread body has returned without blocking.
func (t *Thread) Exited() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Join blocks until the thread body returns and reports its result.
func (t *Thread) Join() (int, error) {
	err := t.group.Wait()
	return t.status, err
}
