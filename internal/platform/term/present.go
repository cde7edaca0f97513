package term

import (
	"strings"
	"sync"

	"github.com/atomicstack/renderloop/internal/gfx"
	"github.com/charmbracelet/lipgloss"
)

type colorPair struct {
	fg gfx.Color
	bg gfx.Color
}

// presenter turns cell frames into styled text.
type presenter struct {
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	styles map[colorPair]lipgloss.Style
}

func newPresenter(r *lipgloss.Renderer) *presenter {
	return &presenter{renderer: r, styles: make(map[colorPair]lipgloss.Style)}
}

func (p *presenter) style(pair colorPair) lipgloss.Style {
	if s, ok := p.styles[pair]; ok {
		return s
	}
	s := p.renderer.NewStyle().
		Foreground(lipgloss.Color(pair.fg.Hex())).
		Background(lipgloss.Color(pair.bg.Hex()))
	p.styles[pair] = s
	return s
}

// render draws the frame as one line per row, grouping runs of cells that
// share colors into a single styled span.
func (p *presenter) render(f *gfx.Frame) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < f.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := f.Row(y)
		var cur colorPair
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(p.style(cur).Render(run.String()))
			run.Reset()
		}
		for i, c := range row {
			if c.Rune == 0 {
				continue
			}
			pair := colorPair{fg: c.Fg, bg: c.Bg}
			if i > 0 && pair != cur {
				flush()
			}
			cur = pair
			run.WriteRune(c.Rune)
		}
		flush()
	}
	return b.String()
}

// Present renders f and hands it to the Bubble Tea program.
func (w *Window) Present(f *gfx.Frame) error {
	w.program.Send(frameMsg(w.present.render(f)))
	return nil
}
