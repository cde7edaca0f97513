package events

import "github.com/atomicstack/renderloop/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Resize(width, height int) {
	logging.Trace("window.resize", map[string]interface{}{"width": width, "height": height})
}

func (WindowTracer) Title(title string) {
	logging.Trace("window.title", map[string]interface{}{"title": title})
}

func (WindowTracer) CloseRequested(source string) {
	logging.Trace("window.close", map[string]interface{}{"source": source})
}
