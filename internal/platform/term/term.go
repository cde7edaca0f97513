// Package term implements the platform on a terminal through Bubble Tea.
//
// The Bubble Tea program runs on its own goroutine and only buffers what it
// receives. Messages are translated into platform events by PollEvents on the
// main thread, and composed frames reach the screen through Program.Send.
package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/renderloop/internal/logging/events"
	"github.com/atomicstack/renderloop/internal/platform"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xterm "golang.org/x/term"
)

// ErrNotTerminal is returned by Init when stdin is not a terminal.
var ErrNotTerminal = errors.New("term: not a terminal")

var closeKey = key.NewBinding(
	key.WithKeys("ctrl+c"),
	key.WithHelp("ctrl+c", "close window"),
)

// Options configure the terminal platform.
type Options struct {
	// Input and Output replace stdin and stdout. Setting Input skips the
	// terminal check.
	Input  io.Reader
	Output io.Writer

	// AltScreen runs the program in the alternate screen buffer.
	AltScreen bool
}

// Platform is a terminal platform.Platform.
type Platform struct {
	opts  Options
	start time.Time
}

// New returns a terminal platform.
func New(opts Options) *Platform {
	return &Platform{opts: opts}
}

func (p *Platform) Name() string { return "terminal" }

func (p *Platform) Init() error {
	if p.opts.Input == nil && !xterm.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}
	p.start = time.Now()
	return nil
}

func (p *Platform) Time() float64 {
	return time.Since(p.start).Seconds()
}

func (p *Platform) Terminate() {}

func (p *Platform) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("term: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	out := p.opts.Output
	if out == nil {
		out = os.Stdout
	}
	w := newWindow(cfg, out)

	teaOpts := []tea.ProgramOption{
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithOutput(out),
	}
	if p.opts.AltScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	if p.opts.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(p.opts.Input))
	}
	w.program = tea.NewProgram(&model{window: w}, teaOpts...)

	go func() {
		defer close(w.done)
		_, err := w.program.Run()
		w.mu.Lock()
		w.runErr = err
		w.shouldClose = true
		w.mu.Unlock()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			events.Window.CloseRequested("program: " + err.Error())
		}
	}()

	if cfg.Title != "" {
		w.SetTitle(cfg.Title)
	}
	return w, nil
}

// Window is a terminal platform.Window.
type Window struct {
	program *tea.Program
	done    chan struct{}
	present *presenter

	mu          sync.Mutex
	pending     []tea.Msg
	width       int
	height      int
	shouldClose bool
	runErr      error
	keys        map[platform.Key]platform.Action
	buttons     map[platform.MouseButton]platform.Action
	held        map[platform.Key]platform.ModifierKey
	lastButton  platform.MouseButton
	destroyOnce sync.Once
}

func newWindow(cfg platform.WindowConfig, out io.Writer) *Window {
	return &Window{
		done:       make(chan struct{}),
		present:    newPresenter(lipgloss.NewRenderer(out)),
		width:      cfg.Width,
		height:     cfg.Height,
		keys:       make(map[platform.Key]platform.Action),
		buttons:    make(map[platform.MouseButton]platform.Action),
		held:       make(map[platform.Key]platform.ModifierKey),
		lastButton: platform.MouseButtonLeft,
	}
}

func (w *Window) enqueue(msg tea.Msg) {
	w.mu.Lock()
	w.pending = append(w.pending, msg)
	w.mu.Unlock()
}

func (w *Window) PollEvents() []platform.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	msgs := w.pending
	w.pending = nil
	return w.translate(msgs)
}

func (w *Window) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shouldClose
}

func (w *Window) SetShouldClose(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shouldClose = v
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// SetSize cannot resize the terminal; it reports the requested size as a
// resize event on the next poll.
func (w *Window) SetSize(width, height int) {
	w.enqueue(tea.WindowSizeMsg{Width: width, Height: height})
}

func (w *Window) SetTitle(title string) {
	events.Window.Title(title)
	go w.program.Send(titleMsg(title))
}

func (w *Window) Key(k platform.Key) platform.Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys[k]
}

func (w *Window) MouseButton(b platform.MouseButton) platform.Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buttons[b]
}

// Err returns the error the Bubble Tea program exited with, if any.
func (w *Window) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runErr
}

// Destroy stops the Bubble Tea program and restores the terminal.
func (w *Window) Destroy() {
	w.destroyOnce.Do(func() {
		w.program.Quit()
		<-w.done
	})
}

type titleMsg string

type frameMsg string

// model is the Bubble Tea side of a Window. It never interprets input, it
// only buffers it for PollEvents.
type model struct {
	window *Window
	view   string
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.view = string(msg)
		return m, nil
	case titleMsg:
		return m, tea.SetWindowTitle(string(msg))
	case tea.KeyMsg, tea.MouseMsg, tea.WindowSizeMsg, tea.FocusMsg, tea.BlurMsg:
		m.window.enqueue(msg)
	}
	return m, nil
}

func (m *model) View() string { return m.view }

var (
	_ platform.Platform = (*Platform)(nil)
	_ platform.Window   = (*Window)(nil)
)
