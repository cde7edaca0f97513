package shell

import "github.com/atomicstack/renderloop/internal/platform"

// Hooks are optional. The value passed to New may implement any subset of
// the interfaces below; the rest behave as no-ops.
//
// Initialize, Render, PostRender, Shutdown and OnReset run on the render
// thread. Update and every input hook run on the main thread.

type Initializer interface {
	Initialize(args []string)
}

type Updater interface {
	Update(dt float64)
}

type Renderer interface {
	Render(dt float64)
}

type PostRenderer interface {
	PostRender(dt float64)
}

// Shutdowner returns the process exit status.
type Shutdowner interface {
	Shutdown() int
}

type Resetter interface {
	OnReset()
}

type KeyHandler interface {
	OnKey(key platform.Key, scancode int, action platform.Action, mods platform.ModifierKey)
}

type CharHandler interface {
	OnChar(r rune)
}

type CharModsHandler interface {
	OnCharMods(r rune, mods platform.ModifierKey)
}

type MouseButtonHandler interface {
	OnMouseButton(button platform.MouseButton, action platform.Action, mods platform.ModifierKey)
}

type CursorPosHandler interface {
	OnCursorPos(x, y float64)
}

type CursorEnterHandler interface {
	OnCursorEnter(entered bool)
}

type ScrollHandler interface {
	OnScroll(dx, dy float64)
}

type DropHandler interface {
	OnDrop(paths []string)
}

type WindowSizeHandler interface {
	OnWindowSize(width, height int)
}

// dispatch holds the hooks resolved once at construction.
type dispatch struct {
	initialize  func(args []string)
	update      func(dt float64)
	render      func(dt float64)
	postRender  func(dt float64)
	shutdown    func() int
	reset       func()
	key         func(platform.Key, int, platform.Action, platform.ModifierKey)
	char        func(rune)
	charMods    func(rune, platform.ModifierKey)
	mouseButton func(platform.MouseButton, platform.Action, platform.ModifierKey)
	cursorPos   func(x, y float64)
	cursorEnter func(bool)
	scroll      func(dx, dy float64)
	drop        func([]string)
	windowSize  func(width, height int)
}

func resolveHooks(h any) dispatch {
	d := dispatch{
		initialize:  func([]string) {},
		update:      func(float64) {},
		render:      func(float64) {},
		postRender:  func(float64) {},
		shutdown:    func() int { return 0 },
		reset:       func() {},
		key:         func(platform.Key, int, platform.Action, platform.ModifierKey) {},
		char:        func(rune) {},
		charMods:    func(rune, platform.ModifierKey) {},
		mouseButton: func(platform.MouseButton, platform.Action, platform.ModifierKey) {},
		cursorPos:   func(float64, float64) {},
		cursorEnter: func(bool) {},
		scroll:      func(float64, float64) {},
		drop:        func([]string) {},
		windowSize:  func(int, int) {},
	}
	if h == nil {
		return d
	}
	if v, ok := h.(Initializer); ok {
		d.initialize = v.Initialize
	}
	if v, ok := h.(Updater); ok {
		d.update = v.Update
	}
	if v, ok := h.(Renderer); ok {
		d.render = v.Render
	}
	if v, ok := h.(PostRenderer); ok {
		d.postRender = v.PostRender
	}
	if v, ok := h.(Shutdowner); ok {
		d.shutdown = v.Shutdown
	}
	if v, ok := h.(Resetter); ok {
		d.reset = v.OnReset
	}
	if v, ok := h.(KeyHandler); ok {
		d.key = v.OnKey
	}
	if v, ok := h.(CharHandler); ok {
		d.char = v.OnChar
	}
	if v, ok := h.(CharModsHandler); ok {
		d.charMods = v.OnCharMods
	}
	if v, ok := h.(MouseButtonHandler); ok {
		d.mouseButton = v.OnMouseButton
	}
	if v, ok := h.(CursorPosHandler); ok {
		d.cursorPos = v.OnCursorPos
	}
	if v, ok := h.(CursorEnterHandler); ok {
		d.cursorEnter = v.OnCursorEnter
	}
	if v, ok := h.(ScrollHandler); ok {
		d.scroll = v.OnScroll
	}
	if v, ok := h.(DropHandler); ok {
		d.drop = v.OnDrop
	}
	if v, ok := h.(WindowSizeHandler); ok {
		d.windowSize = v.OnWindowSize
	}
	return d
}
