package shell

import "github.com/atomicstack/renderloop/internal/gfx"

// Option configures an App at construction.
type Option func(*App)

// WithDevice replaces the default gfx device.
func WithDevice(d Device) Option {
	return func(a *App) { a.device = d }
}

// WithUI replaces the default imui context.
func WithUI(ui UI) Option {
	return func(a *App) { a.ui = ui }
}

// RunOption configures device initialization for one Run.
type RunOption func(*runConfig)

type runConfig struct {
	renderer  gfx.RendererType
	vendorID  uint16
	deviceID  uint16
	callback  gfx.Callback
	allocator gfx.Allocator
}

// WithRenderer selects the renderer. The default picks one automatically.
func WithRenderer(t gfx.RendererType) RunOption {
	return func(c *runConfig) { c.renderer = t }
}

// WithVendorID requests an adapter vendor.
func WithVendorID(id uint16) RunOption {
	return func(c *runConfig) { c.vendorID = id }
}

// WithDeviceID requests an adapter device.
func WithDeviceID(id uint16) RunOption {
	return func(c *runConfig) { c.deviceID = id }
}

// WithCallback receives device diagnostics. Fatal reports also stop the app.
func WithCallback(cb gfx.Callback) RunOption {
	return func(c *runConfig) { c.callback = cb }
}

// WithAllocator replaces the device's frame buffer allocator.
func WithAllocator(alloc gfx.Allocator) RunOption {
	return func(c *runConfig) { c.allocator = alloc }
}
