package gfx

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Default cell colors used where nothing was drawn.
var (
	DefaultForeground = RGB(0xd0, 0xd0, 0xd0)
	DefaultBackground = RGB(0x00, 0x00, 0x00)
)

// Cell is one character cell. A zero Rune marks the trailing half of a wide
// character.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

// Frame is a composed output surface, row-major.
type Frame struct {
	Number uint32
	Width  int
	Height int
	Flags  ResetFlags
	Cells  []Cell
}

// At returns the cell at x, y or a blank cell outside the frame.
func (f *Frame) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Cell{Rune: ' ', Fg: DefaultForeground, Bg: DefaultBackground}
	}
	return f.Cells[y*f.Width+x]
}

// Row returns the cells of row y.
func (f *Frame) Row(y int) []Cell {
	if y < 0 || y >= f.Height {
		return nil
	}
	return f.Cells[y*f.Width : (y+1)*f.Width]
}

// Line returns the characters of row y without styling.
func (f *Frame) Line(y int) string {
	var b strings.Builder
	for _, c := range f.Row(y) {
		if c.Rune == 0 {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// Clone returns a deep copy that may outlive the Present call.
func (f *Frame) Clone() *Frame {
	dup := *f
	dup.Cells = make([]Cell, len(f.Cells))
	copy(dup.Cells, f.Cells)
	return &dup
}

type drawKind int

const (
	drawRect drawKind = iota
	drawText
)

type drawCmd struct {
	kind drawKind
	x, y int
	w, h int
	r    rune
	text string
	fg   Color
	bg   Color
}

type view struct {
	clear      bool
	clearColor Color
	touched    bool
	cmds       []drawCmd
}

func (v *view) active() bool {
	return v.touched || len(v.cmds) > 0
}

func (v *view) reset() {
	v.touched = false
	v.cmds = v.cmds[:0]
}

// canvas applies draw commands to a cell buffer.
type canvas struct {
	w, h  int
	cells []Cell
}

func (c *canvas) fill(x, y, w, h int, r rune, fg, bg Color) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > c.w {
		w = c.w - x
	}
	if y+h > c.h {
		h = c.h - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := y; row < y+h; row++ {
		off := row * c.w
		for col := x; col < x+w; col++ {
			c.set(off+col, r, fg, bg)
		}
	}
}

func (c *canvas) text(x, y int, s string, fg, bg Color) {
	if y < 0 || y >= c.h {
		return
	}
	col := x
	for _, r := range ansi.Strip(s) {
		if col >= c.w {
			return
		}
		width := ansi.StringWidth(string(r))
		if width == 0 {
			continue
		}
		if col >= 0 {
			c.set(y*c.w+col, r, fg, bg)
			if width == 2 && col+1 < c.w {
				c.set(y*c.w+col+1, 0, fg, bg)
			}
		}
		col += width
	}
}

func (c *canvas) set(idx int, r rune, fg, bg Color) {
	cell := &c.cells[idx]
	cell.Rune = r
	if !fg.Transparent() {
		cell.Fg = fg
	}
	if !bg.Transparent() {
		cell.Bg = bg
	}
}
