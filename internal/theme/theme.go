package theme

import (
	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/charmbracelet/x/ansi"
)

// Theme describes the colors shared by the demo scene and its UI.
type Theme struct {
	Clear     gfx.Color
	Block     gfx.Color
	BlockText gfx.Color
	Status    gfx.Color
	Error     gfx.Color
	UI        imui.Style
}

var defaultTheme = Theme{
	Clear:     xterm(235),
	Block:     xterm(33),
	BlockText: xterm(255),
	Status:    xterm(249),
	Error:     xterm(196),
	UI: imui.Style{
		Text:          xterm(249),
		TextDisabled:  xterm(241),
		WindowBg:      xterm(236),
		TitleBg:       xterm(33),
		TitleText:     xterm(255),
		FrameBg:       xterm(238),
		FrameBgActive: xterm(240),
		Button:        xterm(238),
		ButtonHovered: xterm(33),
		ButtonActive:  xterm(27),
		CheckMark:     xterm(34),
		Separator:     xterm(241),
		Selection:     xterm(33),
	},
}

// Default exposes the standard theme used across the application.
func Default() *Theme {
	return &defaultTheme
}

// xterm converts an index in the 256-color xterm palette.
func xterm(n uint8) gfx.Color {
	return gfx.ColorOf(ansi.ExtendedColor(n))
}
