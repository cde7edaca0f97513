package imui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type window struct {
	title  string
	bounds rect
	// cursor is the next free row inside the window body.
	cursor int
}

func (w *window) id(label string) string {
	return w.title + "##" + label
}

// Begin opens a window at x, y of w by h cells, including its title row.
// It reports false when the window is entirely off screen; End must be
// called either way.
func (c *Context) Begin(title string, x, y, w, h int) bool {
	if c.win != nil {
		c.End()
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	w = min(w, c.width-x)
	h = min(h, c.height-y)
	c.win = &window{title: title, bounds: rect{x, y, max(w, 0), max(h, 0)}, cursor: y + 1}
	if w <= 0 || h <= 0 {
		return false
	}
	c.windowRects = append(c.windowRects, c.win.bounds)
	st := c.style
	c.draw.rect(x, y, w, h, ' ', st.Text, st.WindowBg)
	c.draw.rect(x, y, w, 1, ' ', st.TitleText, st.TitleBg)
	c.draw.text(x+1, y, ansi.Truncate(title, w-2, "…"), st.TitleText, st.TitleBg)
	return true
}

// End closes the current window.
func (c *Context) End() {
	c.win = nil
}

// row claims the next body row of the current window and returns its
// content area, or false when there is no room left.
func (c *Context) row() (rect, bool) {
	win := c.win
	if win == nil || win.bounds.w < 3 {
		return rect{}, false
	}
	b := win.bounds
	if win.cursor >= b.y+b.h {
		return rect{}, false
	}
	r := rect{x: b.x + 1, y: win.cursor, w: b.w - 2, h: 1}
	win.cursor++
	return r, true
}

// Text draws one line of text.
func (c *Context) Text(s string) {
	r, ok := c.row()
	if !ok {
		return
	}
	c.draw.text(r.x, r.y, ansi.Truncate(s, r.w, "…"), c.style.Text, 0)
}

// Textf draws one line of formatted text.
func (c *Context) Textf(format string, args ...any) {
	c.Text(fmt.Sprintf(format, args...))
}

// TextDisabled draws one line of dimmed text.
func (c *Context) TextDisabled(s string) {
	r, ok := c.row()
	if !ok {
		return
	}
	c.draw.text(r.x, r.y, ansi.Truncate(s, r.w, "…"), c.style.TextDisabled, 0)
}

// Separator draws a horizontal rule.
func (c *Context) Separator() {
	r, ok := c.row()
	if !ok {
		return
	}
	c.draw.rect(r.x, r.y, r.w, 1, '─', c.style.Separator, 0)
}

// Button draws a button and reports whether it was clicked this frame.
func (c *Context) Button(label string) bool {
	r, ok := c.row()
	if !ok {
		return false
	}
	text := ansi.Truncate("[ "+label+" ]", r.w, "…")
	r.w = ansi.StringWidth(text)

	st := c.style
	bg := st.Button
	hovered := c.hovered(r)
	id := c.win.id(label)
	if c.clicked(r) {
		c.active = id
	}
	switch {
	case c.active == id && c.frame.mouseDown[0]:
		bg = st.ButtonActive
	case hovered:
		bg = st.ButtonHovered
	}
	c.draw.rect(r.x, r.y, r.w, 1, ' ', st.Text, bg)
	c.draw.text(r.x, r.y, text, st.Text, bg)
	return c.clicked(r)
}

// Checkbox draws a toggle bound to v and reports whether it changed.
func (c *Context) Checkbox(label string, v *bool) bool {
	r, ok := c.row()
	if !ok {
		return false
	}
	changed := false
	if c.clicked(r) {
		*v = !*v
		changed = true
	}
	st := c.style
	mark := " "
	if *v {
		mark = "x"
	}
	c.draw.text(r.x, r.y, "[", st.Text, st.FrameBg)
	c.draw.text(r.x+1, r.y, mark, st.CheckMark, st.FrameBg)
	c.draw.text(r.x+2, r.y, "]", st.Text, st.FrameBg)
	c.draw.text(r.x+4, r.y, ansi.Truncate(label, r.w-4, "…"), st.Text, 0)
	return changed
}

// InputText draws a single-line text field bound to v and reports whether
// the text changed. Clicking the field focuses it; enter, escape or a click
// elsewhere releases focus.
func (c *Context) InputText(label string, v *string) bool {
	r, ok := c.row()
	if !ok {
		return false
	}
	id := c.win.id(label)
	st := c.style

	prefix := ""
	if label != "" {
		prefix = ansi.Truncate(label, r.w/2, "…") + " "
	}
	field := rect{x: r.x + ansi.StringWidth(prefix), y: r.y, w: r.w - ansi.StringWidth(prefix), h: 1}

	if c.clicked(field) {
		c.focused = id
	} else if c.focused == id && c.frame.mouseClicked[0] {
		c.focused = ""
	}

	edit := c.edits[id]
	if edit == nil || edit.text != *v {
		edit = newTextEdit(*v)
		c.edits[id] = edit
	}

	changed := false
	focused := c.focused == id
	if focused {
		c.focusSeen = true
		changed = c.applyEdits(edit)
		*v = edit.text
		if c.frame.keysPressed[KeyEnter] || c.frame.keysPressed[KeyEscape] {
			c.focused = ""
		}
	}

	bg := st.FrameBg
	if focused {
		bg = st.FrameBgActive
	}
	c.draw.text(r.x, r.y, prefix, st.Text, 0)
	c.draw.rect(field.x, field.y, field.w, 1, ' ', st.Text, bg)

	visible, caret := visibleTail(edit, field.w-1)
	c.draw.text(field.x, field.y, visible, st.Text, bg)
	if focused && caret < field.w {
		under := " "
		if runes := []rune(edit.text); edit.cursor < len(runes) {
			under = string(runes[edit.cursor])
		}
		c.draw.text(field.x+caret, field.y, under, st.WindowBg, st.Selection)
	}
	return changed
}

func (c *Context) applyEdits(e *textEdit) bool {
	before := e.text
	keys := &c.frame.keysPressed
	mods := c.frame.mods

	switch {
	case mods.Ctrl && keys[KeyV]:
		if clip, err := c.clipboard.ReadAll(); err == nil && clip != "" {
			e.insert(strings.ReplaceAll(clip, "\n", " "))
		}
	case mods.Ctrl && keys[KeyC]:
		_ = c.clipboard.WriteAll(e.text)
	case mods.Ctrl && keys[KeyX]:
		if c.clipboard.WriteAll(e.text) == nil {
			e.set("", 0)
		}
	case mods.Ctrl && keys[KeyW]:
		e.deleteWordBackward()
	case mods.Ctrl && keys[KeyU]:
		e.set("", 0)
	case mods.Ctrl && keys[KeyA]:
		e.cursor = 0
	}

	if !mods.Ctrl && !mods.Alt && len(c.frame.chars) > 0 {
		var b strings.Builder
		for _, r := range c.frame.chars {
			if r >= ' ' && r != 0x7f {
				b.WriteRune(r)
			}
		}
		e.insert(b.String())
	}

	switch {
	case keys[KeyBackspace]:
		e.deleteRuneBackward()
	case keys[KeyDelete]:
		e.deleteRuneForward()
	case keys[KeyLeft] && mods.Ctrl:
		e.moveWordBackward()
	case keys[KeyRight] && mods.Ctrl:
		e.moveWordForward()
	case keys[KeyLeft]:
		e.moveRune(-1)
	case keys[KeyRight]:
		e.moveRune(1)
	case keys[KeyHome]:
		e.cursor = 0
	case keys[KeyEnd]:
		e.cursor = len([]rune(e.text))
	}
	return e.text != before
}

// visibleTail returns the part of the text that fits in width cells while
// keeping the caret visible, and the caret column within it.
func visibleTail(e *textEdit, width int) (string, int) {
	runes := []rune(e.text)
	if width <= 0 {
		return "", 0
	}
	start := 0
	for ansi.StringWidth(string(runes[start:e.cursor])) > width {
		start++
	}
	caret := ansi.StringWidth(string(runes[start:e.cursor]))
	return ansi.Truncate(string(runes[start:]), width, ""), caret
}

// FilterList draws a query field followed by up to rows items matching the
// query. It returns the index into items of the item clicked this frame, or
// -1.
func (c *Context) FilterList(label string, query *string, items []string, rows int) int {
	c.InputText(label, query)
	if c.win == nil {
		return -1
	}
	id := c.win.id(label) + "#list"
	matches := filterItems(items, *query)
	if len(matches) == 0 {
		c.TextDisabled("no matches")
		return -1
	}

	offset := c.scroll[id]
	area := rect{}
	if c.win.cursor < c.win.bounds.y+c.win.bounds.h {
		area = rect{x: c.win.bounds.x + 1, y: c.win.cursor, w: c.win.bounds.w - 2, h: rows}
	}
	if c.hovered(area) && c.frame.wheelDY != 0 {
		offset -= int(c.frame.wheelDY)
	}
	offset = max(0, min(offset, len(matches)-rows))
	c.scroll[id] = offset

	picked := -1
	st := c.style
	for i := 0; i < rows; i++ {
		r, ok := c.row()
		if !ok {
			break
		}
		idx := offset + i
		if idx >= len(matches) {
			break
		}
		item := matches[idx]
		bg := st.WindowBg
		if c.hovered(r) {
			bg = st.FrameBgActive
			if c.frame.mouseClicked[0] {
				picked = item
			}
		}
		c.draw.rect(r.x, r.y, r.w, 1, ' ', st.Text, bg)
		c.draw.text(r.x, r.y, ansi.Truncate(items[item], r.w, "…"), st.Text, bg)
	}
	return picked
}
