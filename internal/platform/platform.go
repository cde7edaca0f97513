// Package platform defines the windowing system the shell drives from the
// main thread.
package platform

import "github.com/atomicstack/renderloop/internal/gfx"

type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventKey
	EventChar
	EventMouseButton
	EventCursorPos
	EventCursorEnter
	EventScroll
	EventDrop
)

func (t EventType) String() string {
	switch t {
	case EventClose:
		return "close"
	case EventResize:
		return "resize"
	case EventKey:
		return "key"
	case EventChar:
		return "char"
	case EventMouseButton:
		return "mouse-button"
	case EventCursorPos:
		return "cursor-pos"
	case EventCursorEnter:
		return "cursor-enter"
	case EventScroll:
		return "scroll"
	case EventDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Event is a window-system event. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType
	Width    int
	Height   int
	Key      Key
	Scancode int
	Action   Action
	Mods     ModifierKey
	Rune     rune
	Button   MouseButton
	X        float64
	Y        float64
	OffsetX  float64
	OffsetY  float64
	Entered  bool
	Paths    []string
}

// Platform owns process-wide window-system state. All methods except Time
// must be called from the main thread.
type Platform interface {
	Name() string
	Init() error
	CreateWindow(cfg WindowConfig) (Window, error)
	// Time returns seconds since Init. It may be called from any goroutine.
	Time() float64
	Terminate()
}

// Window is a platform window. Present may be called from any thread; every
// other method belongs to the main thread.
type Window interface {
	gfx.Presenter

	PollEvents() []Event
	ShouldClose() bool
	SetShouldClose(bool)
	Size() (int, int)
	SetSize(width, height int)
	SetTitle(title string)
	Key(key Key) Action
	MouseButton(button MouseButton) Action
	Destroy()
}
