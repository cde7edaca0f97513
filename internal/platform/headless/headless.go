// Package headless is a scripted platform for tests and unattended runs.
package headless

import (
	"sync"
	"time"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/platform"
)

// Options configure a headless platform.
type Options struct {
	// Script is returned batch by batch from successive PollEvents calls.
	Script [][]platform.Event

	// CloseAfter requests close once PollEvents has been called this many
	// times. Zero disables it.
	CloseAfter int

	// MaxFrames requests close once this many frames were presented. Zero
	// disables it.
	MaxFrames int

	// KeepFrames caps the number of presented frames retained. Zero keeps
	// every frame.
	KeepFrames int

	InitErr    error
	CreateErr  error
	PresentErr error

	// Clock overrides the platform clock.
	Clock func() time.Time
}

// Platform is a headless platform.Platform.
type Platform struct {
	opts Options

	mu         sync.Mutex
	start      time.Time
	inited     bool
	terminated bool
	window     *Window
}

// New returns a headless platform.
func New(opts Options) *Platform {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Platform{opts: opts}
}

func (p *Platform) Name() string { return "headless" }

func (p *Platform) Init() error {
	if p.opts.InitErr != nil {
		return p.opts.InitErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inited = true
	p.start = p.opts.Clock()
	return nil
}

func (p *Platform) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if p.opts.CreateErr != nil {
		return nil, p.opts.CreateErr
	}
	w := &Window{
		opts:    p.opts,
		title:   cfg.Title,
		width:   cfg.Width,
		height:  cfg.Height,
		keys:    make(map[platform.Key]platform.Action),
		buttons: make(map[platform.MouseButton]platform.Action),
	}
	w.script = append(w.script, p.opts.Script...)
	p.mu.Lock()
	p.window = w
	p.mu.Unlock()
	return w, nil
}

func (p *Platform) Time() float64 {
	p.mu.Lock()
	start := p.start
	p.mu.Unlock()
	return p.opts.Clock().Sub(start).Seconds()
}

func (p *Platform) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated = true
}

// Initialized reports whether Init succeeded.
func (p *Platform) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inited
}

// Terminated reports whether Terminate was called.
func (p *Platform) Terminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}

// Window returns the most recently created window.
func (p *Platform) Window() *Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// Window is a headless platform.Window.
type Window struct {
	opts Options

	mu          sync.Mutex
	title       string
	width       int
	height      int
	shouldClose bool
	destroyed   bool
	polls       int
	script      [][]platform.Event
	injected    []platform.Event
	keys        map[platform.Key]platform.Action
	buttons     map[platform.MouseButton]platform.Action
	frames      []*gfx.Frame
	presented   int
}

// Inject queues events for the next PollEvents call. Safe from any goroutine.
func (w *Window) Inject(events ...platform.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.injected = append(w.injected, events...)
}

func (w *Window) PollEvents() []platform.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.polls++

	var out []platform.Event
	if len(w.script) > 0 {
		out = append(out, w.script[0]...)
		w.script = w.script[1:]
	}
	out = append(out, w.injected...)
	w.injected = nil

	for _, ev := range out {
		switch ev.Type {
		case platform.EventKey:
			w.keys[ev.Key] = ev.Action
		case platform.EventMouseButton:
			w.buttons[ev.Button] = ev.Action
		case platform.EventResize:
			w.width, w.height = ev.Width, ev.Height
		case platform.EventClose:
			w.shouldClose = true
		}
	}
	if w.opts.CloseAfter > 0 && w.polls >= w.opts.CloseAfter {
		w.shouldClose = true
	}
	return out
}

func (w *Window) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shouldClose
}

func (w *Window) SetShouldClose(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shouldClose = v
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// SetSize changes the size and reports it as a resize event on the next
// poll, like a real window manager would.
func (w *Window) SetSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.injected = append(w.injected, platform.Event{Type: platform.EventResize, Width: width, Height: height})
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

// Title returns the current window title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) Key(key platform.Key) platform.Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys[key]
}

func (w *Window) MouseButton(button platform.MouseButton) platform.Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buttons[button]
}

// Present records a copy of the frame. It is called from whichever thread
// drives the device's RenderFrame.
func (w *Window) Present(f *gfx.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.opts.PresentErr != nil {
		return w.opts.PresentErr
	}
	w.presented++
	w.frames = append(w.frames, f.Clone())
	if keep := w.opts.KeepFrames; keep > 0 && len(w.frames) > keep {
		w.frames = append(w.frames[:0], w.frames[len(w.frames)-keep:]...)
	}
	if w.opts.MaxFrames > 0 && w.presented >= w.opts.MaxFrames {
		w.shouldClose = true
	}
	return nil
}

func (w *Window) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// Frames returns the retained presented frames, oldest first.
func (w *Window) Frames() []*gfx.Frame {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*gfx.Frame(nil), w.frames...)
}

// Presented returns the number of frames presented so far.
func (w *Window) Presented() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.presented
}

// Polls returns the number of PollEvents calls so far.
func (w *Window) Polls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polls
}

var (
	_ platform.Platform = (*Platform)(nil)
	_ platform.Window   = (*Window)(nil)
)
