package shell

import (
	"fmt"
	"runtime/debug"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/thread"
)

// renderThreadName names the render thread in traces and panic errors.
const renderThreadName = "render"

// renderThread is the body of the render thread. It returns the Shutdown
// hook's status, or -1 and a *FatalError. Once the device and UI are up,
// teardown runs exactly once, even when a hook panics.
func (a *App) renderThread(init gfx.Init) (int, error) {
	if err := a.device.Init(init); err != nil {
		a.device.Shutdown()
		return -1, &FatalError{Err: fmt.Errorf("init device: %w", err)}
	}
	if err := a.ui.Init(init.Resolution.Width, init.Resolution.Height); err != nil {
		a.device.Shutdown()
		return -1, &FatalError{Err: fmt.Errorf("init ui: %w", err)}
	}

	if err := a.frames(); err != nil {
		a.fail(err)
	}

	status := a.hooks.shutdown()
	a.ui.Shutdown()
	a.device.Shutdown()
	if err := a.failure(); err != nil {
		return -1, &FatalError{Err: err}
	}
	return status, nil
}

// frames renders until the app stops, then runs work that is still queued
// unless the app failed. A panic is returned as a *thread.PanicError.
func (a *App) frames() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &thread.PanicError{Name: renderThreadName, Value: r, Stack: debug.Stack()}
		}
	}()

	last := a.platform.Time()
	for a.running.Load() && a.failure() == nil {
		now := a.platform.Time()
		dt := now - last
		last = now

		events.Queue.Drain(a.frame.Load(), a.drain())

		a.device.Touch(MainView)
		a.ui.NewFrame(dt)
		a.hooks.render(dt)
		imui.Submit(a.device, UIView, a.ui.Render())
		a.frame.Store(a.device.Frame())
		a.hooks.postRender(dt)
	}
	if a.failure() == nil {
		events.Queue.Drain(a.frame.Load(), a.drain())
	}
	return nil
}

// fatalCallback stops the app on the first fatal device report.
type fatalCallback struct {
	app  *App
	next gfx.Callback
}

func (c fatalCallback) Fatal(code gfx.FatalCode, err error) {
	c.next.Fatal(code, err)
	c.app.fail(fmt.Errorf("%s: %w", code, err))
}

func (c fatalCallback) Trace(msg string) {
	c.next.Trace(msg)
}
