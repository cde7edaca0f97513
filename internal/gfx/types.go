package gfx

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Common errors returned by Device operations.
var (
	ErrAlreadyInitialized  = errors.New("gfx: device already initialized")
	ErrInvalidResolution   = errors.New("gfx: invalid resolution")
	ErrNoPresenter         = errors.New("gfx: renderer requires a presenter")
	ErrUnsupportedRenderer = errors.New("gfx: unsupported renderer")
)

// RendererType selects the device implementation.
type RendererType int

const (
	// RendererNoop composes frames and discards them.
	RendererNoop RendererType = iota
	// RendererCells composes character-cell frames and hands them to the
	// platform presenter.
	RendererCells
	// RendererCount asks Init to pick the best available renderer.
	RendererCount
)

func (t RendererType) String() string {
	switch t {
	case RendererNoop:
		return "noop"
	case RendererCells:
		return "cells"
	case RendererCount:
		return "auto"
	default:
		return fmt.Sprintf("renderer(%d)", int(t))
	}
}

// ParseRendererType maps a configuration value onto a RendererType.
func ParseRendererType(s string) (RendererType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return RendererCount, nil
	case "noop":
		return RendererNoop, nil
	case "cells":
		return RendererCells, nil
	default:
		return RendererCount, fmt.Errorf("%w: %q", ErrUnsupportedRenderer, s)
	}
}

// PCI vendor identifiers accepted by Init.
const (
	PCIIDNone               uint16 = 0x0000
	PCIIDSoftwareRasterizer uint16 = 0x0001
	PCIIDAMD                uint16 = 0x1002
	PCIIDIntel              uint16 = 0x8086
	PCIIDNvidia             uint16 = 0x10de
)

// ResetFlags configure the output surface.
type ResetFlags uint32

const (
	ResetNone  ResetFlags = 0
	ResetVSync ResetFlags = 1 << 0
)

// ViewID addresses one of the device's views. Views are composed in
// ascending order.
type ViewID uint16

// MaxViews is the number of addressable views.
const MaxViews = 256

// Color is packed 0xRRGGBBAA. An alpha of zero means transparent.
type Color uint32

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xff)
}

// ColorOf converts a standard library color.
func ColorOf(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color(r>>8<<24 | g>>8<<16 | b>>8<<8 | a>>8)
}

// RGBA unpacks the color channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Transparent reports whether the color has zero alpha.
func (c Color) Transparent() bool {
	return uint8(c) == 0
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Presenter receives composed frames. Present must not retain the frame or
// its cells after returning.
type Presenter interface {
	Present(f *Frame) error
}

// PlatformData carries the window-system handles the device renders into.
type PlatformData struct {
	Presenter Presenter
}

// Resolution is the output surface geometry.
type Resolution struct {
	Width  int
	Height int
	Reset  ResetFlags
}

// FatalCode classifies errors reported through Callback.Fatal.
type FatalCode int

const (
	FatalPresentFailed FatalCode = iota
	FatalInvalidState
)

func (c FatalCode) String() string {
	switch c {
	case FatalPresentFailed:
		return "present-failed"
	case FatalInvalidState:
		return "invalid-state"
	default:
		return fmt.Sprintf("fatal(%d)", int(c))
	}
}

// Callback receives device diagnostics. Fatal may be called from the thread
// that calls RenderFrame.
type Callback interface {
	Fatal(code FatalCode, err error)
	Trace(msg string)
}

// Allocator provides cell buffers for composed frames.
type Allocator interface {
	Alloc(n int) []Cell
	Free(cells []Cell)
}

// Init configures Device.Init.
type Init struct {
	Type       RendererType
	VendorID   uint16
	DeviceID   uint16
	Callback   Callback
	Allocator  Allocator
	Platform   PlatformData
	Resolution Resolution
}

// RenderFrameResult reports what a RenderFrame call did.
type RenderFrameResult int

const (
	RenderFrameNoContext RenderFrameResult = iota
	RenderFrameRender
	RenderFrameTimeout
	RenderFrameExiting
)

func (r RenderFrameResult) String() string {
	switch r {
	case RenderFrameNoContext:
		return "no-context"
	case RenderFrameRender:
		return "render"
	case RenderFrameTimeout:
		return "timeout"
	case RenderFrameExiting:
		return "exiting"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Caps describes the initialized device.
type Caps struct {
	Renderer      RendererType
	VendorID      uint16
	DeviceID      uint16
	Multithreaded bool
}

// Stats are device counters.
type Stats struct {
	Frames        uint32
	Presented     uint64
	PresentErrors uint64
}
