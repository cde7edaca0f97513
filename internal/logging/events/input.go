package events

import "github.com/atomicstack/renderloop/internal/logging"

type InputTracer struct{}

type inputClass string

const (
	InputKeyboard inputClass = "keyboard"
	InputMouse    inputClass = "mouse"
)

var Input = InputTracer{}

func (InputTracer) Captured(class inputClass, detail string) {
	logging.Trace("input.captured", map[string]interface{}{"class": string(class), "detail": detail})
}

func (InputTracer) Drop(paths []string) {
	logging.Trace("input.drop", map[string]interface{}{"paths": paths})
}
