package imui

import "github.com/atomicstack/renderloop/internal/gfx"

// CmdKind selects the primitive a DrawCmd describes.
type CmdKind int

const (
	CmdRect CmdKind = iota
	CmdText
)

// DrawCmd is one primitive in screen cell coordinates.
type DrawCmd struct {
	Kind CmdKind
	X, Y int
	W, H int
	Rune rune
	Text string
	Fg   gfx.Color
	Bg   gfx.Color
}

// DrawData is the output of a UI frame. It is valid until the next NewFrame.
type DrawData struct {
	Width  int
	Height int
	Cmds   []DrawCmd
}

func (d *DrawData) rect(x, y, w, h int, r rune, fg, bg gfx.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	d.Cmds = append(d.Cmds, DrawCmd{Kind: CmdRect, X: x, Y: y, W: w, H: h, Rune: r, Fg: fg, Bg: bg})
}

func (d *DrawData) text(x, y int, s string, fg, bg gfx.Color) {
	if s == "" {
		return
	}
	d.Cmds = append(d.Cmds, DrawCmd{Kind: CmdText, X: x, Y: y, Text: s, Fg: fg, Bg: bg})
}

// Target receives UI draw commands. *gfx.Device satisfies it.
type Target interface {
	FillRect(id gfx.ViewID, x, y, w, h int, r rune, fg, bg gfx.Color)
	DrawText(id gfx.ViewID, x, y int, s string, fg, bg gfx.Color)
}

// Submit replays dd into view on target.
func Submit(target Target, view gfx.ViewID, dd *DrawData) {
	if dd == nil {
		return
	}
	for _, cmd := range dd.Cmds {
		switch cmd.Kind {
		case CmdRect:
			target.FillRect(view, cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Rune, cmd.Fg, cmd.Bg)
		case CmdText:
			target.DrawText(view, cmd.X, cmd.Y, cmd.Text, cmd.Fg, cmd.Bg)
		}
	}
}
