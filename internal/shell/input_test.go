package shell

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/atomicstack/renderloop/internal/imui"
	"github.com/atomicstack/renderloop/internal/platform"
)

// captureUI lets tests decide what the UI captures.
type captureUI struct {
	*imui.Context
	keyboard atomic.Bool
	mouse    atomic.Bool
}

func (u *captureUI) WantCaptureKeyboard() bool { return u.keyboard.Load() }
func (u *captureUI) WantCaptureMouse() bool    { return u.mouse.Load() }

type inputRecorder struct {
	mu  sync.Mutex
	log []string
}

func (r *inputRecorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, s)
}

func (r *inputRecorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func (r *inputRecorder) OnKey(key platform.Key, scancode int, action platform.Action, mods platform.ModifierKey) {
	r.add("key")
}

func (r *inputRecorder) OnChar(c rune) {
	r.add("char:" + string(c))
}

func (r *inputRecorder) OnCharMods(c rune, mods platform.ModifierKey) {
	r.add("charmods:" + string(c))
}

func (r *inputRecorder) OnMouseButton(button platform.MouseButton, action platform.Action, mods platform.ModifierKey) {
	r.add("button")
}

func (r *inputRecorder) OnCursorPos(x, y float64) {
	r.add("pos")
}

func (r *inputRecorder) OnCursorEnter(entered bool) {
	r.add("enter")
}

func (r *inputRecorder) OnScroll(dx, dy float64) {
	r.add("scroll")
}

func (r *inputRecorder) OnDrop(paths []string) {
	r.add("drop")
}

func (r *inputRecorder) OnWindowSize(width, height int) {
	r.add("size")
}

func (r *inputRecorder) OnReset() {
	r.add("reset")
}

func TestRouteForwardsWhenNotCaptured(t *testing.T) {
	rec := &inputRecorder{}
	ui := &captureUI{Context: imui.New()}
	a := newTestApp(rec, WithUI(ui))

	for _, ev := range []platform.Event{
		{Type: platform.EventKey, Key: platform.KeyA, Action: platform.Press},
		{Type: platform.EventChar, Rune: 'a'},
		{Type: platform.EventMouseButton, Button: platform.MouseButtonLeft, Action: platform.Press},
		{Type: platform.EventCursorPos, X: 3, Y: 2},
		{Type: platform.EventCursorEnter, Entered: true},
		{Type: platform.EventScroll, OffsetX: 1, OffsetY: -1},
		{Type: platform.EventDrop, Paths: []string{"/tmp/a"}},
		{Type: platform.EventClose},
		{Type: platform.EventUnknown},
	} {
		a.route(ev)
	}
	want := []string{"key", "char:a", "charmods:a", "button", "pos", "enter", "scroll", "drop"}
	if got := rec.entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("hooks = %v, want %v", got, want)
	}
	if mods := ui.KeyMods(); mods != (imui.Modifiers{}) {
		t.Fatalf("unexpected modifiers %+v", mods)
	}
}

func TestRouteSkipsCapturedInput(t *testing.T) {
	rec := &inputRecorder{}
	ui := &captureUI{Context: imui.New()}
	ui.keyboard.Store(true)
	ui.mouse.Store(true)
	a := newTestApp(rec, WithUI(ui))

	a.route(platform.Event{Type: platform.EventKey, Key: platform.KeyLeftControl, Action: platform.Press, Mods: platform.ModControl})
	a.route(platform.Event{Type: platform.EventMouseButton, Button: platform.MouseButtonLeft, Action: platform.Press})
	a.route(platform.Event{Type: platform.EventScroll, OffsetX: 0.5, OffsetY: 2})
	a.route(platform.Event{Type: platform.EventScroll, OffsetY: 1})
	a.route(platform.Event{Type: platform.EventChar, Rune: 'z'})

	want := []string{"char:z", "charmods:z"}
	if got := rec.entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("hooks = %v, want %v", got, want)
	}
	if mods := ui.KeyMods(); !mods.Ctrl {
		t.Fatalf("UI did not see the key: %+v", mods)
	}
	if x, y := a.MouseWheel(); x != 0.5 || y != 3 {
		t.Fatalf("app wheel = %v,%v", x, y)
	}
	if x, y := ui.MouseWheel(); x != 0.5 || y != 3 {
		t.Fatalf("ui wheel = %v,%v", x, y)
	}
}

func TestResizeQueuesGeometrySnapshot(t *testing.T) {
	rec := &inputRecorder{}
	dev := gfx.New()
	a := New(nil, rec, Config{Width: 1280, Height: 768}, WithDevice(dev))

	a.Reset(gfx.ResetNone)
	a.route(platform.Event{Type: platform.EventResize, Width: 800, Height: 600})
	if a.Width() != 800 || a.Height() != 600 {
		t.Fatalf("geometry = %dx%d", a.Width(), a.Height())
	}
	if got := rec.entries(); !reflect.DeepEqual(got, []string{"size"}) {
		t.Fatalf("hooks before drain = %v", got)
	}

	var sizes []gfx.Resolution
	for {
		item, ok := a.queue.Pop()
		if !ok {
			break
		}
		if item.Kind != WorkReset {
			t.Fatalf("unexpected %s item", item.Kind)
		}
		item.Execute()
		sizes = append(sizes, dev.Resolution())
	}
	want := []gfx.Resolution{{Width: 1280, Height: 768}, {Width: 800, Height: 600}}
	if !reflect.DeepEqual(sizes, want) {
		t.Fatalf("resets = %+v, want %+v", sizes, want)
	}
	if got := rec.entries(); !reflect.DeepEqual(got, []string{"size", "reset", "reset"}) {
		t.Fatalf("hooks after drain = %v", got)
	}
}

func TestKeyQueriesBeforeRun(t *testing.T) {
	a := newTestApp(nil)
	if a.IsKeyDown(platform.KeyA) || a.IsMouseButtonDown(platform.MouseButtonLeft) {
		t.Fatalf("nothing is held before Run")
	}
	a.SetSize(20, 0)
	if a.Width() != 20 || a.Height() != 4 {
		t.Fatalf("size = %dx%d", a.Width(), a.Height())
	}
	a.SetTitle("demo")
	if a.Title() != "demo" {
		t.Fatalf("title = %q", a.Title())
	}
}

func TestKeyCodesShared(t *testing.T) {
	pairs := []struct {
		ui imui.Key
		pl platform.Key
	}{
		{imui.KeySpace, platform.KeySpace},
		{imui.KeyA, platform.KeyA},
		{imui.KeyX, platform.KeyX},
		{imui.KeyEscape, platform.KeyEscape},
		{imui.KeyEnter, platform.KeyEnter},
		{imui.KeyBackspace, platform.KeyBackspace},
		{imui.KeyLeft, platform.KeyLeft},
		{imui.KeyHome, platform.KeyHome},
		{imui.KeyLeftControl, platform.KeyLeftControl},
		{imui.KeyRightSuper, platform.KeyRightSuper},
	}
	for _, p := range pairs {
		if int(p.ui) != int(p.pl) {
			t.Fatalf("imui key %d != platform key %d", p.ui, p.pl)
		}
	}
}
