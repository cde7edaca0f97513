package events

import "github.com/atomicstack/renderloop/internal/logging"

type RenderTracer struct{}

var Render = RenderTracer{}

func (RenderTracer) Init(renderer string, vendorID, deviceID uint16, width, height int, multithreaded bool) {
	logging.Trace("render.init", map[string]interface{}{
		"renderer":      renderer,
		"vendorID":      vendorID,
		"deviceID":      deviceID,
		"width":         width,
		"height":        height,
		"multithreaded": multithreaded,
	})
}

func (RenderTracer) Reset(width, height int, flags uint32) {
	logging.Trace("render.reset", map[string]interface{}{"width": width, "height": height, "flags": flags})
}

func (RenderTracer) Fatal(code string, err error) {
	logging.Trace("render.fatal", map[string]interface{}{"code": code, "error": errString(err)})
}

func (RenderTracer) Message(msg string) {
	logging.Trace("render.message", map[string]interface{}{"msg": msg})
}

func (RenderTracer) Shutdown(frames uint32) {
	logging.Trace("render.shutdown", map[string]interface{}{"frames": frames})
}
