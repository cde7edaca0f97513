// Package demo is the inspector app the CLI runs: a bouncing block in the
// main view, live statistics and an event log drawn with imui.
package demo

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/renderloop/internal/backend"
	"github.com/atomicstack/renderloop/internal/data/dispatcher"
	"github.com/atomicstack/renderloop/internal/format/table"
	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/atomicstack/renderloop/internal/shell"
	"github.com/atomicstack/renderloop/internal/state"
	"github.com/atomicstack/renderloop/internal/theme"
	"github.com/dustin/go-humanize"
)

const (
	blockWidth  = 14
	blockHeight = 3
	blockSpeed  = 12.0 // cells per second
	statsWidth  = 34
	logWidth    = 40
)

// Option configures a Demo.
type Option func(*Demo)

// WithSampleInterval sets how often runtime statistics are sampled.
func WithSampleInterval(d time.Duration) Option {
	return func(demo *Demo) { demo.interval = d }
}

// WithLogLimit caps the event log.
func WithLogLimit(n int) Option {
	return func(demo *Demo) { demo.log = state.NewEventLog(n) }
}

// Demo implements the shell hooks.
type Demo struct {
	app      *shell.App
	dev      *gfx.Device
	ui       *imui.Context
	theme    *theme.Theme
	interval time.Duration

	// Render thread only.
	log       state.EventLog
	stats     state.StatsStore
	dispatch  *dispatcher.Dispatcher
	watcher   *backend.Watcher
	pump      sync.WaitGroup
	vsync     bool
	query     string
	titleEdit string
	selected  string
	blockX    float64
	blockDir  float64

	// Written on the render thread, applied by Update on the main thread.
	pendingTitle atomic.Pointer[string]
}

// New returns a demo drawing with dev and ui.
func New(dev *gfx.Device, ui *imui.Context, opts ...Option) *Demo {
	d := &Demo{
		dev:      dev,
		ui:       ui,
		theme:    theme.Default(),
		interval: time.Second,
		log:      state.NewEventLog(0),
		stats:    state.NewStatsStore(),
		blockDir: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.dispatch = dispatcher.New(d.stats, d.log)
	ui.SetStyle(d.theme.UI)
	return d
}

// Bind attaches the app the hooks act on. It must be called before Run.
func (d *Demo) Bind(app *shell.App) {
	d.app = app
}

// Log returns the event log. Render thread only, or after Run returned.
func (d *Demo) Log() []string {
	return d.log.Entries()
}

func (d *Demo) Initialize(args []string) {
	d.dev.SetViewClear(shell.MainView, d.theme.Clear)
	d.vsync = d.app.ResetFlags()&gfx.ResetVSync != 0
	d.titleEdit = d.app.Title()
	d.log.Append(fmt.Sprintf("initialize %s", strings.Join(args, " ")))

	d.watcher = backend.NewWatcher(d.interval)
	d.pump.Add(1)
	go func() {
		defer d.pump.Done()
		for evt := range d.watcher.Events() {
			shell.Schedule(d.app, evt, d.applySample)
		}
	}()
}

func (d *Demo) applySample(_ *shell.App, evt backend.Event) {
	d.dispatch.Handle(evt)
}

func (d *Demo) appendLog(_ *shell.App, entry string) {
	d.log.Append(entry)
}

// record queues a log entry from the main thread.
func (d *Demo) record(format string, args ...any) {
	shell.Schedule(d.app, fmt.Sprintf(format, args...), d.appendLog)
}

func (d *Demo) Update(dt float64) {
	if title := d.pendingTitle.Swap(nil); title != nil {
		d.app.SetTitle(*title)
	}
}

func (d *Demo) Render(dt float64) {
	res := d.dev.Resolution()
	d.drawScene(res, dt)
	d.drawStats(res)
	d.drawLog(res)
}

func (d *Demo) drawScene(res gfx.Resolution, dt float64) {
	span := float64(max(res.Width-blockWidth, 0))
	d.blockX += d.blockDir * blockSpeed * dt
	switch {
	case d.blockX >= span:
		d.blockX, d.blockDir = span, -1
	case d.blockX <= 0:
		d.blockX, d.blockDir = 0, 1
	}
	x := int(d.blockX)
	y := max(res.Height-blockHeight-2, 0)
	d.dev.FillRect(shell.MainView, x, y, blockWidth, blockHeight, ' ', d.theme.BlockText, d.theme.Block)
	d.dev.DrawText(shell.MainView, x+2, y+1, "renderloop", d.theme.BlockText, d.theme.Block)

	status := "q quit"
	if d.selected != "" {
		status += "  selected: " + d.selected
	}
	d.dev.DrawText(shell.MainView, 0, res.Height-1, status, d.theme.Status, 0)
}

func (d *Demo) drawStats(res gfx.Resolution) {
	if !d.ui.Begin("renderloop", 1, 1, statsWidth, 14) {
		d.ui.End()
		return
	}
	caps := d.dev.Caps()
	rt := d.stats.Runtime()
	mem := d.stats.Memory()
	rows := [][]string{
		{"frame", fmt.Sprint(d.app.CurrentFrame())},
		{"fps", fmt.Sprintf("%.1f", d.ui.Framerate())},
		{"size", fmt.Sprintf("%dx%d", res.Width, res.Height)},
		{"renderer", caps.Renderer.String()},
		{"adapter", fmt.Sprintf("%04x:%04x", caps.VendorID, caps.DeviceID)},
		{"goroutines", fmt.Sprint(rt.Goroutines)},
		{"heap", humanize.IBytes(mem.HeapAlloc)},
		{"gc", fmt.Sprint(mem.NumGC)},
	}
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight}) {
		d.ui.Text(line)
	}
	d.ui.Separator()
	if d.ui.Checkbox("vsync", &d.vsync) {
		flags := d.app.ResetFlags() &^ gfx.ResetVSync
		if d.vsync {
			flags |= gfx.ResetVSync
		}
		d.app.Reset(flags)
	}
	if d.ui.InputText("title", &d.titleEdit) {
		title := d.titleEdit
		d.pendingTitle.Store(&title)
	}
	if d.ui.Button("quit") {
		d.app.Close()
	}
	d.ui.End()
}

func (d *Demo) drawLog(res gfx.Resolution) {
	x := max(res.Width-logWidth-1, statsWidth+2)
	height := res.Height - 3
	if !d.ui.Begin(fmt.Sprintf("events (%d)", d.log.Len()), x, 1, logWidth, height) {
		d.ui.End()
		return
	}
	entries := d.log.Entries()
	if picked := d.ui.FilterList("find", &d.query, entries, max(height-3, 1)); picked >= 0 {
		d.selected = entries[picked]
	}
	d.ui.End()
}

func (d *Demo) OnReset() {
	res := d.dev.Resolution()
	d.log.Append(fmt.Sprintf("reset %dx%d vsync=%t", res.Width, res.Height, res.Reset&gfx.ResetVSync != 0))
}

func (d *Demo) Shutdown() int {
	if d.watcher != nil {
		d.watcher.Stop()
		d.watcher.Wait()
		d.pump.Wait()
	}
	return 0
}

func (d *Demo) OnKey(key platform.Key, scancode int, action platform.Action, mods platform.ModifierKey) {
	if action == platform.Press && (key == platform.KeyQ || key == platform.KeyEscape) {
		d.app.Close()
	}
	d.record("key %d %s mods=%d", key, action, mods)
}

func (d *Demo) OnChar(r rune) {
	d.record("char %q", r)
}

func (d *Demo) OnMouseButton(button platform.MouseButton, action platform.Action, mods platform.ModifierKey) {
	d.record("button %d %s", button, action)
}

func (d *Demo) OnCursorEnter(entered bool) {
	if entered {
		d.record("cursor entered")
	} else {
		d.record("cursor left")
	}
}

func (d *Demo) OnScroll(dx, dy float64) {
	x, y := d.app.MouseWheel()
	d.record("scroll %+.0f,%+.0f total %.0f,%.0f", dx, dy, x, y)
}

func (d *Demo) OnDrop(paths []string) {
	d.record("drop %s", strings.Join(paths, ", "))
}

func (d *Demo) OnWindowSize(width, height int) {
	d.record("size %dx%d", width, height)
}
