// Package imui is an immediate-mode UI for character-cell surfaces.
//
// The input half (Add* methods, WantCapture*, MouseWheel, KeyMods) may be
// called from any goroutine and is normally driven by the main thread. The
// frame half (Init through Render and every widget) belongs to the render
// thread.
package imui

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	ErrAlreadyInitialized = errors.New("imui: already initialized")
	ErrInvalidSize        = errors.New("imui: invalid display size")
)

// Option configures a Context.
type Option func(*Context)

// WithClipboard replaces the system clipboard.
func WithClipboard(cb Clipboard) Option {
	return func(c *Context) { c.clipboard = cb }
}

// WithStyle sets the initial style.
func WithStyle(s Style) Option {
	return func(c *Context) { c.style = s }
}

type inputState struct {
	keysDown     [KeyCount]bool
	keysPressed  [KeyCount]bool
	mouseDown    [MouseButtonCount]bool
	mouseClicked [MouseButtonCount]bool
	mouseX       float64
	mouseY       float64
	wheelX       float64
	wheelY       float64
	wheelDX      float64
	wheelDY      float64
	chars        []rune
	mods         Modifiers
}

// frameInput is the input snapshot a frame is built from.
type frameInput struct {
	keysDown     [KeyCount]bool
	keysPressed  [KeyCount]bool
	mouseDown    [MouseButtonCount]bool
	mouseClicked [MouseButtonCount]bool
	mouseX       int
	mouseY       int
	wheelDX      float64
	wheelDY      float64
	chars        []rune
	mods         Modifiers
}

// Context is a UI instance.
type Context struct {
	clipboard Clipboard

	mu sync.Mutex
	in inputState

	wantKeyboard atomic.Bool
	wantMouse    atomic.Bool

	// Render thread only.
	style       Style
	initialized bool
	width       int
	height      int
	frame       frameInput
	delta       float64
	framerate   float64
	frameCount  uint64
	draw        DrawData
	win         *window
	windowRects []rect
	active      string
	focused     string
	focusSeen   bool
	edits       map[string]*textEdit
	scroll      map[string]int
}

// New returns an uninitialized context.
func New(opts ...Option) *Context {
	c := &Context{
		clipboard: systemClipboard{},
		style:     DefaultStyle(),
		edits:     make(map[string]*textEdit),
		scroll:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddKeyEvent records a key going down or up.
func (c *Context) AddKeyEvent(key Key, down bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.keysDown[key] = down
	if down {
		c.in.keysPressed[key] = true
	}
}

// AddInputCharacter queues a typed character.
func (c *Context) AddInputCharacter(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.chars = append(c.in.chars, r)
}

// AddMouseButtonEvent records a mouse button going down or up. A press is
// seen by the next frame even if the button was released before it.
func (c *Context) AddMouseButtonEvent(button int, down bool) {
	if button < 0 || button >= MouseButtonCount {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.mouseDown[button] = down
	if down {
		c.in.mouseClicked[button] = true
	}
}

// AddMousePos records the cursor position in cells.
func (c *Context) AddMousePos(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.mouseX, c.in.mouseY = x, y
}

// AddMouseWheel accumulates wheel movement.
func (c *Context) AddMouseWheel(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.wheelX += dx
	c.in.wheelY += dy
	c.in.wheelDX += dx
	c.in.wheelDY += dy
}

// MouseWheel returns the accumulated wheel totals.
func (c *Context) MouseWheel() (x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in.wheelX, c.in.wheelY
}

// SetKeyMods records modifiers reported alongside key events, for platforms
// that never report the modifier keys themselves.
func (c *Context) SetKeyMods(m Modifiers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.mods = m
}

// KeyMods returns the modifiers currently held.
func (c *Context) KeyMods() Modifiers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in.modifiers()
}

func (in *inputState) modifiers() Modifiers {
	m := modifiersFrom(&in.keysDown)
	m.Ctrl = m.Ctrl || in.mods.Ctrl
	m.Shift = m.Shift || in.mods.Shift
	m.Alt = m.Alt || in.mods.Alt
	m.Super = m.Super || in.mods.Super
	return m
}

// WantCaptureKeyboard reports whether the last rendered frame consumes
// keyboard input.
func (c *Context) WantCaptureKeyboard() bool { return c.wantKeyboard.Load() }

// WantCaptureMouse reports whether the cursor was over the UI in the last
// rendered frame.
func (c *Context) WantCaptureMouse() bool { return c.wantMouse.Load() }

// Init prepares the context for a display of width by height cells.
func (c *Context) Init(width, height int) error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	c.width, c.height = width, height
	c.initialized = true
	return nil
}

// Reset changes the display size.
func (c *Context) Reset(width, height int) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

// Shutdown releases the context. Init may be called again afterwards.
func (c *Context) Shutdown() {
	c.initialized = false
	c.draw = DrawData{}
	c.win = nil
	c.windowRects = nil
	c.active = ""
	c.focused = ""
	clear(c.edits)
	clear(c.scroll)
	c.wantKeyboard.Store(false)
	c.wantMouse.Store(false)
}

// Initialized reports whether Init has been called since the last Shutdown.
func (c *Context) Initialized() bool { return c.initialized }

// SetStyle replaces the style from the next widget on.
func (c *Context) SetStyle(s Style) { c.style = s }

// Style returns the current style.
func (c *Context) Style() Style { return c.style }

// DisplaySize returns the display size in cells.
func (c *Context) DisplaySize() (int, int) { return c.width, c.height }

// DeltaTime is the dt passed to the current frame.
func (c *Context) DeltaTime() float64 { return c.delta }

// Framerate is a smoothed frames-per-second estimate.
func (c *Context) Framerate() float64 { return c.framerate }

// FrameCount is the number of frames started.
func (c *Context) FrameCount() uint64 { return c.frameCount }

// NewFrame starts a frame and snapshots pending input.
func (c *Context) NewFrame(dt float64) {
	c.mu.Lock()
	in := &c.in
	c.frame = frameInput{
		keysDown:     in.keysDown,
		keysPressed:  in.keysPressed,
		mouseDown:    in.mouseDown,
		mouseClicked: in.mouseClicked,
		mouseX:       int(in.mouseX),
		mouseY:       int(in.mouseY),
		wheelDX:      in.wheelDX,
		wheelDY:      in.wheelDY,
		chars:        in.chars,
		mods:         in.modifiers(),
	}
	in.keysPressed = [KeyCount]bool{}
	in.mouseClicked = [MouseButtonCount]bool{}
	in.wheelDX, in.wheelDY = 0, 0
	in.chars = nil
	c.mu.Unlock()

	c.delta = dt
	if dt > 0 {
		if c.framerate == 0 {
			c.framerate = 1 / dt
		} else {
			c.framerate += (1/dt - c.framerate) * 0.1
		}
	}
	c.frameCount++
	c.draw.Width, c.draw.Height = c.width, c.height
	c.draw.Cmds = c.draw.Cmds[:0]
	c.win = nil
	c.windowRects = c.windowRects[:0]
	c.focusSeen = false
	if !c.frame.mouseDown[0] {
		c.active = ""
	}
}

// Render ends the frame and returns its draw data. It also publishes the
// capture flags the input side reports.
func (c *Context) Render() *DrawData {
	if c.win != nil {
		c.End()
	}
	if !c.focusSeen {
		c.focused = ""
	}
	overUI := c.active != ""
	for _, r := range c.windowRects {
		if r.contains(c.frame.mouseX, c.frame.mouseY) {
			overUI = true
			break
		}
	}
	c.wantMouse.Store(overUI)
	c.wantKeyboard.Store(c.focused != "")
	return &c.draw
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && y >= r.y && x < r.x+r.w && y < r.y+r.h
}

func (c *Context) hovered(r rect) bool {
	return r.contains(c.frame.mouseX, c.frame.mouseY)
}

func (c *Context) clicked(r rect) bool {
	return c.frame.mouseClicked[0] && c.hovered(r)
}
