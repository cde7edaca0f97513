package imui

import "github.com/atomicstack/renderloop/internal/gfx"

// Style holds the colors widgets are drawn with.
type Style struct {
	Text          gfx.Color
	TextDisabled  gfx.Color
	WindowBg      gfx.Color
	TitleBg       gfx.Color
	TitleText     gfx.Color
	FrameBg       gfx.Color
	FrameBgActive gfx.Color
	Button        gfx.Color
	ButtonHovered gfx.Color
	ButtonActive  gfx.Color
	CheckMark     gfx.Color
	Separator     gfx.Color
	Selection     gfx.Color
}

// DefaultStyle is a dark palette.
func DefaultStyle() Style {
	return Style{
		Text:          gfx.RGB(0xe6, 0xe6, 0xe6),
		TextDisabled:  gfx.RGB(0x80, 0x80, 0x80),
		WindowBg:      gfx.RGB(0x1e, 0x1e, 0x22),
		TitleBg:       gfx.RGB(0x29, 0x4a, 0x7a),
		TitleText:     gfx.RGB(0xff, 0xff, 0xff),
		FrameBg:       gfx.RGB(0x33, 0x33, 0x3a),
		FrameBgActive: gfx.RGB(0x42, 0x42, 0x4d),
		Button:        gfx.RGB(0x2a, 0x5d, 0x9e),
		ButtonHovered: gfx.RGB(0x42, 0x96, 0xfa),
		ButtonActive:  gfx.RGB(0x0f, 0x87, 0xfa),
		CheckMark:     gfx.RGB(0x42, 0x96, 0xfa),
		Separator:     gfx.RGB(0x6e, 0x6e, 0x80),
		Selection:     gfx.RGB(0x42, 0x96, 0xfa),
	}
}
