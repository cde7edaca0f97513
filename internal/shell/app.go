package shell

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/atomicstack/renderloop/internal/thread"
	"github.com/atomicstack/renderloop/internal/workqueue"
)

const (
	DefaultTitle        = "renderloop"
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultFrameTimeout = 100 * time.Millisecond

	// MainView is cleared every frame even when nothing is drawn to it.
	MainView gfx.ViewID = 0

	// UIView carries the UI draw data and is composed last.
	UIView gfx.ViewID = gfx.MaxViews - 1
)

// Config holds the window and surface settings Run starts with.
type Config struct {
	Title        string
	Width        int
	Height       int
	Reset        gfx.ResetFlags
	FrameTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FrameTimeout <= 0 {
		c.FrameTimeout = DefaultFrameTimeout
	}
	return c
}

// Device is the graphics backend the render thread drives. RenderFrame is
// called from the main thread; everything else from the render thread.
type Device interface {
	imui.Target

	RenderFrame(timeout time.Duration) gfx.RenderFrameResult
	Init(init gfx.Init) error
	Reset(width, height int, flags gfx.ResetFlags)
	Touch(id gfx.ViewID)
	Frame() uint32
	Shutdown()
}

// UI is the immediate-mode UI. The input methods are called from the main
// thread and the frame methods from the render thread.
type UI interface {
	AddKeyEvent(key imui.Key, down bool)
	SetKeyMods(m imui.Modifiers)
	AddInputCharacter(r rune)
	AddMouseButtonEvent(button int, down bool)
	AddMousePos(x, y float64)
	AddMouseWheel(dx, dy float64)
	WantCaptureKeyboard() bool
	WantCaptureMouse() bool

	Init(width, height int) error
	Reset(width, height int)
	NewFrame(dt float64)
	Render() *imui.DrawData
	Shutdown()
}

// App coordinates the main and render threads.
type App struct {
	platform     platform.Platform
	hooks        dispatch
	device       Device
	ui           UI
	frameTimeout time.Duration

	queue  *workqueue.Queue[*WorkItem]
	pushMu sync.Mutex

	started atomic.Bool
	running atomic.Bool
	closing atomic.Bool
	frame   atomic.Uint32
	scrollX atomic.Uint64
	scrollY atomic.Uint64

	// mu guards the main-thread copy of the window state. Reset snapshots it
	// into each queued reset so the render thread never reads it.
	mu     sync.Mutex
	title  string
	width  int
	height int
	reset  gfx.ResetFlags

	fatalMu  sync.Mutex
	fatalErr error

	// Set by Run on the main thread.
	window platform.Window
	render *thread.Thread
}

// New returns an app for p. hooks may implement any of the hook interfaces
// in this package.
func New(p platform.Platform, hooks any, cfg Config, opts ...Option) *App {
	cfg = cfg.withDefaults()
	a := &App{
		platform:     p,
		hooks:        resolveHooks(hooks),
		frameTimeout: cfg.FrameTimeout,
		queue:        workqueue.New[*WorkItem](),
		title:        cfg.Title,
		width:        cfg.Width,
		height:       cfg.Height,
		reset:        cfg.Reset,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.device == nil {
		a.device = gfx.New()
	}
	if a.ui == nil {
		a.ui = imui.New()
	}
	return a
}

// Device returns the graphics device. Outside RenderFrame it belongs to the
// render thread.
func (a *App) Device() Device { return a.device }

// UI returns the UI. Its frame methods belong to the render thread.
func (a *App) UI() UI { return a.ui }

// IsRunning reports whether the render thread should keep producing frames.
func (a *App) IsRunning() bool { return a.running.Load() }

// CurrentFrame is the number of the last frame the render thread submitted.
func (a *App) CurrentFrame() uint32 { return a.frame.Load() }

// MainViewID is the view cleared every frame.
func (a *App) MainViewID() gfx.ViewID { return MainView }

func (a *App) Width() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.width
}

func (a *App) Height() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

func (a *App) Title() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title
}

// ResetFlags returns the flags of the last reset requested.
func (a *App) ResetFlags() gfx.ResetFlags {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reset
}

// MouseWheel returns the scroll offsets accumulated since Run started. Safe
// from any goroutine.
func (a *App) MouseWheel() (x, y float64) {
	return math.Float64frombits(a.scrollX.Load()), math.Float64frombits(a.scrollY.Load())
}

// SetTitle changes the window title. Main thread only.
func (a *App) SetTitle(title string) {
	a.mu.Lock()
	a.title = title
	a.mu.Unlock()
	if a.window != nil {
		a.window.SetTitle(title)
	}
	events.Window.Title(title)
}

// SetSize asks the window to resize. The new size takes effect when the
// window reports it. Before Run it sets the initial size. Main thread only.
func (a *App) SetSize(width, height int) {
	if a.window != nil {
		a.window.SetSize(width, height)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if width > 0 {
		a.width = width
	}
	if height > 0 {
		a.height = height
	}
}

// Reset queues a surface reset with flags at the current size. Safe from any
// goroutine.
func (a *App) Reset(flags gfx.ResetFlags) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset = flags
	a.pushResetLocked()
}

// Close asks the main loop to stop. Safe from any goroutine.
func (a *App) Close() {
	a.closing.Store(true)
}

// IsKeyDown reports whether key is held. It reports false while the UI
// wants the keyboard. Main thread only.
func (a *App) IsKeyDown(key platform.Key) bool {
	if a.window == nil || key < platform.KeySpace || key > platform.KeyLast || a.ui.WantCaptureKeyboard() {
		return false
	}
	return a.window.Key(key) != platform.Release
}

// IsMouseButtonDown reports whether button is held. It reports false while
// the UI wants the mouse. Main thread only.
func (a *App) IsMouseButtonDown(button platform.MouseButton) bool {
	if a.window == nil || button < platform.MouseButton1 || button > platform.MouseButtonLast || a.ui.WantCaptureMouse() {
		return false
	}
	return a.window.MouseButton(button) != platform.Release
}

func (a *App) resize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width, a.height = width, height
	a.pushResetLocked()
}

func (a *App) pushResetLocked() {
	width, height, flags := a.width, a.height, a.reset
	a.push(WorkReset, func(app *App) { app.applyReset(width, height, flags) })
}

func (a *App) applyReset(width, height int, flags gfx.ResetFlags) {
	a.device.Reset(width, height, flags)
	a.ui.Reset(width, height)
	a.hooks.reset()
}

func (a *App) fail(err error) {
	a.fatalMu.Lock()
	if a.fatalErr == nil {
		a.fatalErr = err
	}
	a.fatalMu.Unlock()
	a.Close()
}

func (a *App) failure() error {
	a.fatalMu.Lock()
	defer a.fatalMu.Unlock()
	return a.fatalErr
}

func addFloat(v *atomic.Uint64, delta float64) {
	for {
		old := v.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if v.CompareAndSwap(old, next) {
			return
		}
	}
}
