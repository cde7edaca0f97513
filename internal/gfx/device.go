// Package gfx is a single-threaded character-cell graphics device.
//
// All methods except RenderFrame must be called from one goroutine, the
// render thread. RenderFrame belongs to the thread that owns the window.
//
// Calling RenderFrame before Init (the "kick") puts the device in
// multithreaded mode: Frame then hands each composed frame to the next
// RenderFrame call and returns only once that call has presented it. Without
// the kick Frame presents inline on the render thread.
package gfx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/throttle"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateExiting
)

// vsyncInterval is the presentation interval emulated by ResetVSync.
const vsyncInterval = time.Second / 60

// Device is the graphics backend.
type Device struct {
	kicked atomic.Bool
	state  atomic.Int32

	submit   chan *Frame
	accepted chan struct{}
	exiting  chan struct{}
	exitOnce sync.Once

	frames        atomic.Uint32
	presented     atomic.Uint64
	presentErrors atomic.Uint64

	// Owned by the render thread after Init.
	init  Init
	caps  Caps
	res   Resolution
	views [MaxViews]view
	pace  *throttle.Throttle
}

// New returns an uninitialized device.
func New() *Device {
	return &Device{
		submit:   make(chan *Frame),
		accepted: make(chan struct{}, 1),
		exiting:  make(chan struct{}),
	}
}

// RenderFrame presents the next submitted frame, waiting up to timeout for
// one. A non-positive timeout polls. The first call before Init only marks
// the device multithreaded and returns RenderFrameNoContext.
func (d *Device) RenderFrame(timeout time.Duration) RenderFrameResult {
	if !d.kicked.Swap(true) && d.state.Load() == stateIdle {
		return RenderFrameNoContext
	}
	select {
	case <-d.exiting:
		return RenderFrameExiting
	default:
	}

	if timeout <= 0 {
		select {
		case f := <-d.submit:
			d.present(f)
			d.accepted <- struct{}{}
			return RenderFrameRender
		default:
			return RenderFrameTimeout
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-d.submit:
		d.present(f)
		d.accepted <- struct{}{}
		return RenderFrameRender
	case <-d.exiting:
		return RenderFrameExiting
	case <-timer.C:
		return RenderFrameTimeout
	}
}

// Init initializes the device on the calling goroutine, which becomes the
// render thread.
func (d *Device) Init(init Init) error {
	if d.state.Load() != stateIdle {
		return ErrAlreadyInitialized
	}
	if init.Resolution.Width <= 0 || init.Resolution.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, init.Resolution.Width, init.Resolution.Height)
	}
	renderer := init.Type
	switch renderer {
	case RendererCount:
		renderer = RendererNoop
		if init.Platform.Presenter != nil {
			renderer = RendererCells
		}
	case RendererNoop:
	case RendererCells:
		if init.Platform.Presenter == nil {
			return ErrNoPresenter
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedRenderer, renderer)
	}
	if init.Callback == nil {
		init.Callback = traceCallback{}
	}
	if init.Allocator == nil {
		init.Allocator = newPoolAllocator()
	}

	d.init = init
	d.caps = Caps{
		Renderer:      renderer,
		VendorID:      selectVendor(init.VendorID, init.Callback),
		DeviceID:      init.DeviceID,
		Multithreaded: d.kicked.Load(),
	}
	d.Reset(init.Resolution.Width, init.Resolution.Height, init.Resolution.Reset)
	d.state.Store(stateRunning)
	events.Render.Init(renderer.String(), d.caps.VendorID, d.caps.DeviceID, d.res.Width, d.res.Height, d.caps.Multithreaded)
	return nil
}

// selectVendor maps the requested vendor onto the adapters this device has.
// There is a single software adapter; other requests fall back to it.
func selectVendor(requested uint16, cb Callback) uint16 {
	switch requested {
	case PCIIDNone, PCIIDSoftwareRasterizer:
		return PCIIDSoftwareRasterizer
	default:
		cb.Trace(fmt.Sprintf("vendor 0x%04x unavailable, using software rasterizer", requested))
		return PCIIDSoftwareRasterizer
	}
}

// Reset resizes the output surface. Non-positive sizes are clamped to 1.
func (d *Device) Reset(width, height int, flags ResetFlags) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	d.res = Resolution{Width: width, Height: height, Reset: flags}
	if flags&ResetVSync != 0 {
		if d.pace == nil {
			d.pace = throttle.New(vsyncInterval)
		}
	} else {
		d.pace = nil
	}
	events.Render.Reset(width, height, uint32(flags))
}

// Resolution returns the current output surface geometry.
func (d *Device) Resolution() Resolution {
	return d.res
}

// Caps describes the initialized device.
func (d *Device) Caps() Caps {
	return d.caps
}

// Stats returns device counters.
func (d *Device) Stats() Stats {
	return Stats{
		Frames:        d.frames.Load(),
		Presented:     d.presented.Load(),
		PresentErrors: d.presentErrors.Load(),
	}
}

// SetViewClear makes view clear the whole surface to color whenever it is
// active in a frame.
func (d *Device) SetViewClear(id ViewID, color Color) {
	v := &d.views[id]
	v.clear = true
	v.clearColor = color
}

// Touch marks the view active for the next frame even if nothing is drawn
// into it, so its clear still happens.
func (d *Device) Touch(id ViewID) {
	d.views[id].touched = true
}

// FillRect fills a rectangle of cells in view id.
func (d *Device) FillRect(id ViewID, x, y, w, h int, r rune, fg, bg Color) {
	v := &d.views[id]
	v.cmds = append(v.cmds, drawCmd{kind: drawRect, x: x, y: y, w: w, h: h, r: r, fg: fg, bg: bg})
}

// DrawText writes s starting at x, y in view id. Escape sequences are
// stripped and the text is clipped to the surface.
func (d *Device) DrawText(id ViewID, x, y int, s string, fg, bg Color) {
	v := &d.views[id]
	v.cmds = append(v.cmds, drawCmd{kind: drawText, x: x, y: y, text: s, fg: fg, bg: bg})
}

// Frame composes the active views and submits the result. In multithreaded
// mode it returns once RenderFrame has presented the frame. It returns the
// number of frames submitted so far.
func (d *Device) Frame() uint32 {
	if d.state.Load() != stateRunning {
		return d.frames.Load()
	}
	f := d.compose()
	d.pace.Wait()
	f.Number = d.frames.Add(1)
	if d.caps.Multithreaded {
		d.submit <- f
		<-d.accepted
	} else {
		d.present(f)
	}
	for i := range d.views {
		d.views[i].reset()
	}
	return f.Number
}

// Shutdown releases the device. Pending and future RenderFrame calls return
// RenderFrameExiting. It is safe to call more than once.
func (d *Device) Shutdown() {
	d.state.Store(stateExiting)
	d.exitOnce.Do(func() {
		close(d.exiting)
		events.Render.Shutdown(d.frames.Load())
	})
}

func (d *Device) compose() *Frame {
	w, h := d.res.Width, d.res.Height
	cells := d.init.Allocator.Alloc(w * h)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Fg: DefaultForeground, Bg: DefaultBackground}
	}
	c := canvas{w: w, h: h, cells: cells}
	for i := range d.views {
		v := &d.views[i]
		if !v.active() {
			continue
		}
		if v.clear {
			c.fill(0, 0, w, h, ' ', DefaultForeground, v.clearColor)
		}
		for _, cmd := range v.cmds {
			switch cmd.kind {
			case drawRect:
				c.fill(cmd.x, cmd.y, cmd.w, cmd.h, cmd.r, cmd.fg, cmd.bg)
			case drawText:
				c.text(cmd.x, cmd.y, cmd.text, cmd.fg, cmd.bg)
			}
		}
	}
	return &Frame{Width: w, Height: h, Flags: d.res.Reset, Cells: cells}
}

func (d *Device) present(f *Frame) {
	if d.caps.Renderer == RendererCells {
		if err := d.init.Platform.Presenter.Present(f); err != nil {
			d.presentErrors.Add(1)
			d.init.Callback.Fatal(FatalPresentFailed, fmt.Errorf("present frame %d: %w", f.Number, err))
		}
	}
	d.presented.Add(1)
	d.init.Allocator.Free(f.Cells)
	f.Cells = nil
}
