package shell

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/atomicstack/renderloop/internal/platform/headless"
	"github.com/atomicstack/renderloop/internal/thread"
)

// lifecycle records the hooks that matter for ordering.
type lifecycle struct {
	mu      sync.Mutex
	log     []string
	dev     *gfx.Device
	app     *App
	status  int
	renders int
	resets  []string

	onRender func(frame int)
	onUpdate func()
}

func (l *lifecycle) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log = append(l.log, s)
}

func (l *lifecycle) entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.log...)
}

func (l *lifecycle) Initialize(args []string) {
	l.add(fmt.Sprintf("initialize%v", args))
}

func (l *lifecycle) OnReset() {
	res := l.dev.Resolution()
	l.mu.Lock()
	l.resets = append(l.resets, fmt.Sprintf("%dx%d", res.Width, res.Height))
	l.mu.Unlock()
	l.add("reset")
}

func (l *lifecycle) Update(dt float64) {
	if l.onUpdate != nil {
		l.onUpdate()
	}
}

func (l *lifecycle) Render(dt float64) {
	l.mu.Lock()
	l.renders++
	n := l.renders
	l.mu.Unlock()
	if n == 1 {
		l.add("render")
	}
	if l.onRender != nil {
		l.onRender(n)
	}
}

func (l *lifecycle) Shutdown() int {
	l.add("shutdown")
	return l.status
}

type recordingDevice struct {
	*gfx.Device
	rec *lifecycle
}

func (d recordingDevice) Shutdown() {
	d.rec.add("device.shutdown")
	d.Device.Shutdown()
}

type recordingUI struct {
	*imui.Context
	rec *lifecycle
}

func (u recordingUI) Shutdown() {
	u.rec.add("ui.shutdown")
	u.Context.Shutdown()
}

type harness struct {
	app  *App
	plat *headless.Platform
	rec  *lifecycle
}

func newHarness(opts headless.Options, cfg Config) *harness {
	rec := &lifecycle{dev: gfx.New()}
	plat := headless.New(opts)
	app := New(plat, rec, cfg,
		WithDevice(recordingDevice{Device: rec.dev, rec: rec}),
		WithUI(recordingUI{Context: imui.New(), rec: rec}),
	)
	rec.app = app
	return &harness{app: app, plat: plat, rec: rec}
}

func (h *harness) run(t *testing.T, args []string, opts ...RunOption) (int, error) {
	t.Helper()
	type result struct {
		status int
		err    error
	}
	done := make(chan result, 1)
	go func() {
		status, err := h.app.Run(args, opts...)
		done <- result{status, err}
	}()
	select {
	case r := <-done:
		return r.status, r.err
	case <-time.After(10 * time.Second):
		t.Fatalf("Run did not return")
		return 0, nil
	}
}

func TestRunLifecycleOrder(t *testing.T) {
	h := newHarness(headless.Options{MaxFrames: 3, KeepFrames: 1}, Config{Width: 8, Height: 3})
	h.rec.status = 7

	status, err := h.run(t, []string{"-x", "y"})
	if err != nil || status != 7 {
		t.Fatalf("Run = %d, %v", status, err)
	}
	want := []string{"reset", "initialize[-x y]", "render", "shutdown", "ui.shutdown", "device.shutdown"}
	if got := h.rec.entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	win := h.plat.Window()
	if !win.Destroyed() || !h.plat.Terminated() {
		t.Fatalf("window destroyed = %v, platform terminated = %v", win.Destroyed(), h.plat.Terminated())
	}
	if h.app.IsRunning() {
		t.Fatalf("still running after Run")
	}
	// The render thread may finish one more frame after the stop request.
	if frames := h.app.CurrentFrame(); frames < 3 || frames > 4 {
		t.Fatalf("frames = %d", frames)
	}
	if !h.rec.dev.Caps().Multithreaded {
		t.Fatalf("device should have been kicked into multithreaded mode")
	}
	if _, err := h.app.Run(nil); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Run error = %v", err)
	}
}

func TestResizeBehindInitialReset(t *testing.T) {
	h := newHarness(headless.Options{
		Script:     [][]platform.Event{{{Type: platform.EventResize, Width: 800, Height: 600}}},
		MaxFrames:  5,
		KeepFrames: 1,
	}, Config{Width: 1280, Height: 768})

	if _, err := h.run(t, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	h.rec.mu.Lock()
	resets := append([]string(nil), h.rec.resets...)
	h.rec.mu.Unlock()
	if !reflect.DeepEqual(resets, []string{"1280x768", "800x600"}) {
		t.Fatalf("resets = %v", resets)
	}
	if h.app.Width() != 800 || h.app.Height() != 600 {
		t.Fatalf("app size = %dx%d", h.app.Width(), h.app.Height())
	}
	frames := h.plat.Window().Frames()
	if last := frames[len(frames)-1]; last.Width != 800 || last.Height != 600 {
		t.Fatalf("last frame = %dx%d", last.Width, last.Height)
	}
}

func TestOneFrameInFlight(t *testing.T) {
	h := newHarness(headless.Options{MaxFrames: 20}, Config{Width: 4, Height: 2})
	var (
		mu     sync.Mutex
		posted int
		seen   []int
		bad    []string
	)
	h.rec.onUpdate = func() {
		mu.Lock()
		posted++
		n := posted
		mu.Unlock()
		Schedule(h.app, n, func(_ *App, v int) {
			mu.Lock()
			seen = append(seen, v)
			mu.Unlock()
		})
	}
	h.rec.onRender = func(frame int) {
		if frame%4 == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	h.app.hooks.postRender = func(float64) {
		presented := uint32(h.plat.Window().Presented())
		if cur := h.app.CurrentFrame(); cur != presented {
			mu.Lock()
			bad = append(bad, fmt.Sprintf("frame %d presented %d", cur, presented))
			mu.Unlock()
		}
	}

	if _, err := h.run(t, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(bad) > 0 {
		t.Fatalf("frames out of step: %v", bad)
	}
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("work item %d ran as %d", i, v)
		}
	}
}

func TestCloseFromRenderThread(t *testing.T) {
	h := newHarness(headless.Options{}, Config{Width: 4, Height: 2})
	h.rec.onRender = func(frame int) {
		if frame == 3 {
			h.app.Close()
		}
	}
	if status, err := h.run(t, nil); err != nil || status != 0 {
		t.Fatalf("Run = %d, %v", status, err)
	}
}

func TestCloseBeforeRunStillInitializes(t *testing.T) {
	h := newHarness(headless.Options{}, Config{Width: 4, Height: 2})
	h.app.Close()
	if status, err := h.run(t, []string{"early"}); err != nil || status != 0 {
		t.Fatalf("Run = %d, %v", status, err)
	}
	got := h.rec.entries()
	if len(got) < 5 || got[0] != "reset" || got[1] != "initialize[early]" {
		t.Fatalf("entries = %v", got)
	}
	want := []string{"shutdown", "ui.shutdown", "device.shutdown"}
	if !reflect.DeepEqual(got[len(got)-len(want):], want) {
		t.Fatalf("entries = %v, want them to end with %v", got, want)
	}
}

func TestSelfRepostingWorkKeepsFramesFlowing(t *testing.T) {
	h := newHarness(headless.Options{MaxFrames: 5}, Config{Width: 4, Height: 2})
	var (
		mu   sync.Mutex
		runs int
	)
	var tick func(*App)
	tick = func(app *App) {
		mu.Lock()
		runs++
		mu.Unlock()
		app.Post(tick)
	}
	h.app.Post(tick)
	if status, err := h.run(t, nil); err != nil || status != 0 {
		t.Fatalf("Run = %d, %v", status, err)
	}
	mu.Lock()
	defer mu.Unlock()
	if frames := h.app.CurrentFrame(); frames < 5 || runs < 5 || uint32(runs) > frames+2 {
		t.Fatalf("frames = %d, runs = %d", frames, runs)
	}
}

func TestStartupFailures(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name  string
		opts  headless.Options
		stage string
	}{
		{"platform", headless.Options{InitErr: boom}, "platform-init"},
		{"window", headless.Options{CreateErr: boom}, "window-create"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(tc.opts, Config{})
			status, err := h.run(t, nil)
			var se *StartupError
			if status != -1 || !errors.As(err, &se) || se.Stage != tc.stage || !errors.Is(err, boom) {
				t.Fatalf("Run = %d, %v", status, err)
			}
			if len(h.rec.entries()) != 0 {
				t.Fatalf("hooks ran: %v", h.rec.entries())
			}
			if h.plat.Window() != nil {
				t.Fatalf("window was created")
			}
		})
	}
}

func TestDeviceInitFailureIsFatal(t *testing.T) {
	h := newHarness(headless.Options{}, Config{Width: 4, Height: 2})
	status, err := h.run(t, nil, WithRenderer(gfx.RendererType(42)))
	var fatal *FatalError
	if status != -1 || !errors.As(err, &fatal) || !errors.Is(err, gfx.ErrUnsupportedRenderer) {
		t.Fatalf("Run = %d, %v", status, err)
	}
	if !h.plat.Window().Destroyed() || !h.plat.Terminated() {
		t.Fatalf("teardown skipped")
	}
}

type countingCallback struct {
	mu     sync.Mutex
	fatals int
	traces []string
}

func (c *countingCallback) Fatal(code gfx.FatalCode, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fatals++
}

func (c *countingCallback) Trace(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traces = append(c.traces, msg)
}

func TestPresentFailureStopsApp(t *testing.T) {
	presentErr := errors.New("present failed")
	h := newHarness(headless.Options{PresentErr: presentErr}, Config{Width: 4, Height: 2})
	cb := &countingCallback{}

	status, err := h.run(t, nil, WithRenderer(gfx.RendererCells), WithVendorID(gfx.PCIIDNvidia), WithCallback(cb))
	var fatal *FatalError
	if status != -1 || !errors.As(err, &fatal) || !errors.Is(err, presentErr) {
		t.Fatalf("Run = %d, %v", status, err)
	}
	got := h.rec.entries()
	if got[len(got)-3] != "shutdown" {
		t.Fatalf("shutdown hook skipped: %v", got)
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.fatals == 0 || len(cb.traces) != 1 {
		t.Fatalf("callback saw %d fatals and traces %v", cb.fatals, cb.traces)
	}
}

func TestRenderPanicIsFatal(t *testing.T) {
	h := newHarness(headless.Options{}, Config{Width: 4, Height: 2})
	h.rec.onRender = func(frame int) {
		if frame == 2 {
			panic("render exploded")
		}
	}
	status, err := h.run(t, nil)
	var (
		fatal *FatalError
		pe    *thread.PanicError
	)
	if status != -1 || !errors.As(err, &fatal) || !errors.As(err, &pe) {
		t.Fatalf("Run = %d, %v", status, err)
	}
	if pe.Value != "render exploded" || pe.Name != "render" {
		t.Fatalf("panic = %s %v", pe.Name, pe.Value)
	}
	got := h.rec.entries()
	want := []string{"shutdown", "ui.shutdown", "device.shutdown"}
	if len(got) < len(want) || !reflect.DeepEqual(got[len(got)-len(want):], want) {
		t.Fatalf("teardown after panic = %v, want it to end with %v", got, want)
	}
	if !h.plat.Window().Destroyed() {
		t.Fatalf("window not destroyed")
	}
}

type keyWatcher struct {
	app  *App
	mu   sync.Mutex
	down []bool
}

func (k *keyWatcher) Update(dt float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down = append(k.down, k.app.IsKeyDown(platform.KeyA) && k.app.IsMouseButtonDown(platform.MouseButtonLeft))
}

func TestIsKeyDownFollowsWindowState(t *testing.T) {
	plat := headless.New(headless.Options{
		Script: [][]platform.Event{
			{
				{Type: platform.EventKey, Key: platform.KeyA, Action: platform.Press},
				{Type: platform.EventMouseButton, Button: platform.MouseButtonLeft, Action: platform.Press},
			},
			{{Type: platform.EventKey, Key: platform.KeyA, Action: platform.Release}},
		},
		CloseAfter: 3,
	})
	kw := &keyWatcher{}
	kw.app = New(plat, kw, Config{Width: 40, Height: 10})
	h := &harness{app: kw.app, plat: plat}
	if _, err := h.run(t, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if len(kw.down) < 2 || !kw.down[0] || kw.down[1] {
		t.Fatalf("key state per update = %v", kw.down)
	}
	if kw.app.IsKeyDown(platform.KeyUnknown) || kw.app.IsKeyDown(platform.KeyLast+1) {
		t.Fatalf("out of range keys must report up")
	}
}
