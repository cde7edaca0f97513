package shell

import (
	"errors"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/atomicstack/renderloop/internal/thread"
)

// Run opens the window, starts the render thread and pumps events until the
// window closes, Close is called or the render thread stops. args are passed
// to the Initialize hook. Run must be called from the main thread, once.
//
// The status is the Shutdown hook's result. Startup failures return -1 and a
// *StartupError; render thread failures return -1 and a *FatalError.
func (a *App) Run(args []string, opts ...RunOption) (int, error) {
	if !a.started.CompareAndSwap(false, true) {
		return -1, ErrAlreadyRunning
	}
	rc := runConfig{renderer: gfx.RendererCount}
	for _, opt := range opts {
		opt(&rc)
	}

	if err := a.platform.Init(); err != nil {
		events.Lifecycle.StartupFailed(events.StagePlatformInit, err)
		return -1, &StartupError{Stage: string(events.StagePlatformInit), Err: err}
	}
	a.mu.Lock()
	cfg := platform.WindowConfig{Title: a.title, Width: a.width, Height: a.height}
	a.mu.Unlock()
	win, err := a.platform.CreateWindow(cfg)
	if err != nil {
		a.platform.Terminate()
		events.Lifecycle.StartupFailed(events.StageWindowCreate, err)
		return -1, &StartupError{Stage: string(events.StageWindowCreate), Err: err}
	}
	a.window = win

	a.mu.Lock()
	if w, h := win.Size(); w > 0 && h > 0 {
		a.width, a.height = w, h
	}
	width, height, flags := a.width, a.height, a.reset
	a.mu.Unlock()
	events.Lifecycle.WindowCreated(a.platform.Name(), cfg.Title, width, height)

	// Kick before the device is initialized so frames are handed to this
	// thread instead of being presented on the render thread.
	events.Lifecycle.Kick(a.device.RenderFrame(0).String())

	callback := rc.callback
	if callback == nil {
		callback = gfx.DefaultCallback()
	}
	init := gfx.Init{
		Type:       rc.renderer,
		VendorID:   rc.vendorID,
		DeviceID:   rc.deviceID,
		Callback:   fatalCallback{app: a, next: callback},
		Allocator:  rc.allocator,
		Platform:   gfx.PlatformData{Presenter: win},
		Resolution: gfx.Resolution{Width: width, Height: height, Reset: flags},
	}
	// Queued before the thread starts so both run ahead of the first frame.
	a.Reset(flags)
	a.push(WorkInit, func(app *App) { app.hooks.initialize(args) })

	a.running.Store(true)
	a.render = thread.Start(renderThreadName, func() (int, error) {
		return a.renderThread(init)
	})
	events.Lifecycle.RenderThreadStarted(a.render.Name())

	a.loop()
	return a.stop()
}

func (a *App) loop() {
	last := a.platform.Time()
	for !a.stopRequested() {
		now := a.platform.Time()
		dt := now - last
		last = now

		for _, ev := range a.window.PollEvents() {
			a.route(ev)
		}
		a.hooks.update(dt)
		a.device.RenderFrame(a.frameTimeout)
	}
}

func (a *App) stopRequested() bool {
	switch {
	case a.window.ShouldClose():
		events.Lifecycle.StopRequested("window")
	case a.closing.Load():
		events.Lifecycle.StopRequested("close")
	case a.render.Exited():
		events.Lifecycle.StopRequested("render-thread")
	default:
		return false
	}
	return true
}

// stop winds down in order: the render thread finishes its frame and tears
// down the UI and device, then it is joined, then the window goes away.
func (a *App) stop() (int, error) {
	a.running.Store(false)
	for !a.render.Exited() {
		if a.device.RenderFrame(a.frameTimeout) == gfx.RenderFrameExiting {
			break
		}
	}
	status, err := a.render.Join()
	events.Lifecycle.RenderThreadJoined(status, err)

	a.window.Destroy()
	events.Lifecycle.WindowDestroyed()
	a.platform.Terminate()

	if err != nil {
		var fatal *FatalError
		if !errors.As(err, &fatal) {
			err = &FatalError{Err: err}
		}
		return -1, err
	}
	return status, nil
}
