package term

import (
	"slices"
	"strings"
	"unicode"

	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type namedKey struct {
	key  platform.Key
	mods platform.ModifierKey
}

var namedKeys = map[tea.KeyType]namedKey{
	tea.KeyEnter:          {platform.KeyEnter, 0},
	tea.KeyTab:            {platform.KeyTab, 0},
	tea.KeyShiftTab:       {platform.KeyTab, platform.ModShift},
	tea.KeyBackspace:      {platform.KeyBackspace, 0},
	tea.KeyEsc:            {platform.KeyEscape, 0},
	tea.KeySpace:          {platform.KeySpace, 0},
	tea.KeyInsert:         {platform.KeyInsert, 0},
	tea.KeyDelete:         {platform.KeyDelete, 0},
	tea.KeyUp:             {platform.KeyUp, 0},
	tea.KeyDown:           {platform.KeyDown, 0},
	tea.KeyLeft:           {platform.KeyLeft, 0},
	tea.KeyRight:          {platform.KeyRight, 0},
	tea.KeyShiftUp:        {platform.KeyUp, platform.ModShift},
	tea.KeyShiftDown:      {platform.KeyDown, platform.ModShift},
	tea.KeyShiftLeft:      {platform.KeyLeft, platform.ModShift},
	tea.KeyShiftRight:     {platform.KeyRight, platform.ModShift},
	tea.KeyCtrlUp:         {platform.KeyUp, platform.ModControl},
	tea.KeyCtrlDown:       {platform.KeyDown, platform.ModControl},
	tea.KeyCtrlLeft:       {platform.KeyLeft, platform.ModControl},
	tea.KeyCtrlRight:      {platform.KeyRight, platform.ModControl},
	tea.KeyCtrlShiftUp:    {platform.KeyUp, platform.ModControl | platform.ModShift},
	tea.KeyCtrlShiftDown:  {platform.KeyDown, platform.ModControl | platform.ModShift},
	tea.KeyCtrlShiftLeft:  {platform.KeyLeft, platform.ModControl | platform.ModShift},
	tea.KeyCtrlShiftRight: {platform.KeyRight, platform.ModControl | platform.ModShift},
	tea.KeyHome:           {platform.KeyHome, 0},
	tea.KeyEnd:            {platform.KeyEnd, 0},
	tea.KeyShiftHome:      {platform.KeyHome, platform.ModShift},
	tea.KeyShiftEnd:       {platform.KeyEnd, platform.ModShift},
	tea.KeyCtrlHome:       {platform.KeyHome, platform.ModControl},
	tea.KeyCtrlEnd:        {platform.KeyEnd, platform.ModControl},
	tea.KeyPgUp:           {platform.KeyPageUp, 0},
	tea.KeyPgDown:         {platform.KeyPageDown, 0},
	tea.KeyCtrlPgUp:       {platform.KeyPageUp, platform.ModControl},
	tea.KeyCtrlPgDown:     {platform.KeyPageDown, platform.ModControl},
	tea.KeyF1:             {platform.KeyF1, 0},
	tea.KeyF2:             {platform.KeyF2, 0},
	tea.KeyF3:             {platform.KeyF3, 0},
	tea.KeyF4:             {platform.KeyF4, 0},
	tea.KeyF5:             {platform.KeyF5, 0},
	tea.KeyF6:             {platform.KeyF6, 0},
	tea.KeyF7:             {platform.KeyF7, 0},
	tea.KeyF8:             {platform.KeyF8, 0},
	tea.KeyF9:             {platform.KeyF9, 0},
	tea.KeyF10:            {platform.KeyF10, 0},
	tea.KeyF11:            {platform.KeyF11, 0},
	tea.KeyF12:            {platform.KeyF12, 0},
}

// runeKey maps a printable rune onto the key that produces it on a US
// layout, with shift set for upper-case letters.
func runeKey(r rune) (platform.Key, platform.ModifierKey) {
	switch {
	case r >= 'a' && r <= 'z':
		return platform.KeyA + platform.Key(r-'a'), 0
	case r >= 'A' && r <= 'Z':
		return platform.KeyA + platform.Key(r-'A'), platform.ModShift
	case r >= '0' && r <= '9':
		return platform.Key0 + platform.Key(r-'0'), 0
	}
	switch r {
	case ' ':
		return platform.KeySpace, 0
	case '\'':
		return platform.KeyApostrophe, 0
	case ',':
		return platform.KeyComma, 0
	case '-':
		return platform.KeyMinus, 0
	case '.':
		return platform.KeyPeriod, 0
	case '/':
		return platform.KeySlash, 0
	case ';':
		return platform.KeySemicolon, 0
	case '=':
		return platform.KeyEqual, 0
	}
	return platform.KeyUnknown, 0
}

var wheelOffsets = map[tea.MouseButton][2]float64{
	tea.MouseButtonWheelUp:    {0, 1},
	tea.MouseButtonWheelDown:  {0, -1},
	tea.MouseButtonWheelLeft:  {-1, 0},
	tea.MouseButtonWheelRight: {1, 0},
}

var mouseButtons = map[tea.MouseButton]platform.MouseButton{
	tea.MouseButtonLeft:     platform.MouseButtonLeft,
	tea.MouseButtonRight:    platform.MouseButtonRight,
	tea.MouseButtonMiddle:   platform.MouseButtonMiddle,
	tea.MouseButtonBackward: platform.MouseButton4,
	tea.MouseButtonForward:  platform.MouseButton5,
	tea.MouseButton10:       platform.MouseButton6,
	tea.MouseButton11:       platform.MouseButton7,
}

// translate turns buffered Bubble Tea messages into platform events. Keys
// pressed during the previous poll and not pressed again are released first;
// keys pressed again become repeats. Callers hold w.mu.
func (w *Window) translate(msgs []tea.Msg) []platform.Event {
	var out []platform.Event
	prev := w.held
	w.held = make(map[platform.Key]platform.ModifierKey)

	press := func(k platform.Key, mods platform.ModifierKey) {
		if k == platform.KeyUnknown {
			return
		}
		action := platform.Press
		if _, ok := prev[k]; ok {
			action = platform.Repeat
			delete(prev, k)
		}
		w.held[k] = mods
		w.keys[k] = action
		out = append(out, platform.Event{Type: platform.EventKey, Key: k, Action: action, Mods: mods})
	}

	for _, msg := range msgs {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if key.Matches(msg, closeKey) {
				w.shouldClose = true
				events.Window.CloseRequested(msg.String())
				out = append(out, platform.Event{Type: platform.EventClose})
				continue
			}
			if msg.Paste {
				out = append(out, platform.Event{Type: platform.EventDrop, Paths: pastePaths(msg.Runes)})
				continue
			}
			var alt platform.ModifierKey
			if msg.Alt {
				alt = platform.ModAlt
			}
			if msg.Type == tea.KeyRunes {
				for _, r := range msg.Runes {
					k, mods := runeKey(r)
					press(k, mods|alt)
					if alt == 0 && unicode.IsPrint(r) {
						out = append(out, platform.Event{Type: platform.EventChar, Rune: r, Mods: mods})
					}
				}
				continue
			}
			if named, ok := namedKeys[msg.Type]; ok {
				press(named.key, named.mods|alt)
				if msg.Type == tea.KeySpace && alt == 0 {
					out = append(out, platform.Event{Type: platform.EventChar, Rune: ' '})
				}
				continue
			}
			if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
				press(platform.KeyA+platform.Key(msg.Type-tea.KeyCtrlA), platform.ModControl|alt)
			}
		case tea.MouseMsg:
			out = append(out, w.translateMouse(msg)...)
		case tea.WindowSizeMsg:
			w.width, w.height = msg.Width, msg.Height
			out = append(out, platform.Event{Type: platform.EventResize, Width: msg.Width, Height: msg.Height})
		case tea.FocusMsg:
			out = append(out, platform.Event{Type: platform.EventCursorEnter, Entered: true})
		case tea.BlurMsg:
			out = append(out, platform.Event{Type: platform.EventCursorEnter, Entered: false})
		}
	}

	if len(prev) == 0 {
		return out
	}
	released := make([]platform.Event, 0, len(prev)+len(out))
	for k, mods := range prev {
		w.keys[k] = platform.Release
		released = append(released, platform.Event{Type: platform.EventKey, Key: k, Action: platform.Release, Mods: mods})
	}
	slices.SortFunc(released, func(a, b platform.Event) int { return int(a.Key - b.Key) })
	return append(released, out...)
}

func (w *Window) translateMouse(msg tea.MouseMsg) []platform.Event {
	var mods platform.ModifierKey
	if msg.Shift {
		mods |= platform.ModShift
	}
	if msg.Alt {
		mods |= platform.ModAlt
	}
	if msg.Ctrl {
		mods |= platform.ModControl
	}
	pos := platform.Event{Type: platform.EventCursorPos, X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionMotion:
		return []platform.Event{pos}
	case tea.MouseActionPress:
		if off, ok := wheelOffsets[msg.Button]; ok {
			return []platform.Event{pos, {Type: platform.EventScroll, OffsetX: off[0], OffsetY: off[1], Mods: mods}}
		}
		b, ok := mouseButtons[msg.Button]
		if !ok {
			return []platform.Event{pos}
		}
		w.lastButton = b
		w.buttons[b] = platform.Press
		return []platform.Event{pos, {Type: platform.EventMouseButton, Button: b, Action: platform.Press, Mods: mods}}
	case tea.MouseActionRelease:
		// X10 mouse reporting does not say which button was released.
		b, ok := mouseButtons[msg.Button]
		if !ok {
			b = w.lastButton
		}
		w.buttons[b] = platform.Release
		return []platform.Event{pos, {Type: platform.EventMouseButton, Button: b, Action: platform.Release, Mods: mods}}
	}
	return nil
}

func pastePaths(runes []rune) []string {
	var paths []string
	for _, line := range strings.Split(string(runes), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
