package shell

import (
	"strconv"

	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/platform"
)

// route dispatches one window event on the main thread. The UI sees every
// event first; keyboard and mouse hooks are skipped while it captures them.
func (a *App) route(ev platform.Event) {
	switch ev.Type {
	case platform.EventKey:
		a.ui.AddKeyEvent(imui.Key(ev.Key), ev.Action != platform.Release)
		a.ui.SetKeyMods(uiModifiers(ev.Mods))
		if a.ui.WantCaptureKeyboard() {
			events.Input.Captured(events.InputKeyboard, "key "+strconv.Itoa(int(ev.Key)))
			return
		}
		a.hooks.key(ev.Key, ev.Scancode, ev.Action, ev.Mods)
	case platform.EventChar:
		a.ui.AddInputCharacter(ev.Rune)
		a.hooks.char(ev.Rune)
		a.hooks.charMods(ev.Rune, ev.Mods)
	case platform.EventMouseButton:
		a.ui.AddMouseButtonEvent(int(ev.Button), ev.Action != platform.Release)
		if a.ui.WantCaptureMouse() {
			events.Input.Captured(events.InputMouse, "button "+strconv.Itoa(int(ev.Button)))
			return
		}
		a.hooks.mouseButton(ev.Button, ev.Action, ev.Mods)
	case platform.EventCursorPos:
		a.ui.AddMousePos(ev.X, ev.Y)
		a.hooks.cursorPos(ev.X, ev.Y)
	case platform.EventCursorEnter:
		a.hooks.cursorEnter(ev.Entered)
	case platform.EventScroll:
		a.ui.AddMouseWheel(ev.OffsetX, ev.OffsetY)
		addFloat(&a.scrollX, ev.OffsetX)
		addFloat(&a.scrollY, ev.OffsetY)
		if a.ui.WantCaptureMouse() {
			events.Input.Captured(events.InputMouse, "scroll")
			return
		}
		a.hooks.scroll(ev.OffsetX, ev.OffsetY)
	case platform.EventDrop:
		events.Input.Drop(ev.Paths)
		a.hooks.drop(ev.Paths)
	case platform.EventResize:
		events.Window.Resize(ev.Width, ev.Height)
		a.resize(ev.Width, ev.Height)
		a.hooks.windowSize(ev.Width, ev.Height)
	case platform.EventClose:
		events.Window.CloseRequested("window")
	}
}

func uiModifiers(m platform.ModifierKey) imui.Modifiers {
	return imui.Modifiers{
		Ctrl:  m&platform.ModControl != 0,
		Shift: m&platform.ModShift != 0,
		Alt:   m&platform.ModAlt != 0,
		Super: m&platform.ModSuper != 0,
	}
}
