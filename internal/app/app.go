package app

import (
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/renderloop/internal/demo"
	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/atomicstack/renderloop/internal/platform/headless"
	"github.com/atomicstack/renderloop/internal/platform/term"
	"github.com/atomicstack/renderloop/internal/shell"
	xterm "golang.org/x/term"
)

// Config describes user-provided application options.
type Config struct {
	Title        string
	Width        int
	Height       int
	Platform     string
	Renderer     gfx.RendererType
	VendorID     uint16
	DeviceID     uint16
	VSync        bool
	Frames       int
	FrameTimeout time.Duration

	// Args are forwarded to the app's Initialize hook.
	Args []string
}

// Run builds the platform and demo app and runs it until the window closes.
// It returns the app's exit status.
func Run(cfg Config) (int, error) {
	plat, err := newPlatform(cfg)
	if err != nil {
		return -1, err
	}
	width, height := cfg.Width, cfg.Height
	if cfg.Platform != "headless" && (width == 0 || height == 0) {
		if w, h, err := xterm.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = pick(width, w), pick(height, h)
		}
	}
	var flags gfx.ResetFlags
	if cfg.VSync {
		flags |= gfx.ResetVSync
	}

	dev := gfx.New()
	ui := imui.New()
	d := demo.New(dev, ui)
	a := shell.New(plat, d, shell.Config{
		Title:        cfg.Title,
		Width:        width,
		Height:       height,
		Reset:        flags,
		FrameTimeout: cfg.FrameTimeout,
	}, shell.WithDevice(dev), shell.WithUI(ui))
	d.Bind(a)

	status, err := a.Run(cfg.Args,
		shell.WithRenderer(cfg.Renderer),
		shell.WithVendorID(cfg.VendorID),
		shell.WithDeviceID(cfg.DeviceID),
	)
	events.App.Exit(status, err)
	return status, err
}

func newPlatform(cfg Config) (platform.Platform, error) {
	switch cfg.Platform {
	case "", "terminal":
		return term.New(term.Options{AltScreen: true}), nil
	case "headless":
		return headless.New(headless.Options{MaxFrames: cfg.Frames, KeepFrames: 1}), nil
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}

func pick(configured, detected int) int {
	if configured > 0 {
		return configured
	}
	return detected
}
