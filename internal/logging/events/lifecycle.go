package events

import "github.com/atomicstack/renderloop/internal/logging"

type LifecycleTracer struct{}

type lifecycleStage string

const (
	StagePlatformInit lifecycleStage = "platform-init"
	StageWindowCreate lifecycleStage = "window-create"
)

var Lifecycle = LifecycleTracer{}

func (LifecycleTracer) StartupFailed(stage lifecycleStage, err error) {
	logging.Trace("lifecycle.startup.failed", map[string]interface{}{"stage": string(stage), "error": errString(err)})
}

func (LifecycleTracer) WindowCreated(platform, title string, width, height int) {
	logging.Trace("lifecycle.window.created", map[string]interface{}{
		"platform": platform,
		"title":    title,
		"width":    width,
		"height":   height,
	})
}

func (LifecycleTracer) Kick(result string) {
	logging.Trace("lifecycle.kick", map[string]interface{}{"result": result})
}

func (LifecycleTracer) RenderThreadStarted(name string) {
	logging.Trace("lifecycle.render.started", map[string]interface{}{"thread": name})
}

func (LifecycleTracer) StopRequested(reason string) {
	logging.Trace("lifecycle.stop", map[string]interface{}{"reason": reason})
}

func (LifecycleTracer) RenderThreadJoined(status int, err error) {
	logging.Trace("lifecycle.render.joined", map[string]interface{}{"status": status, "error": errString(err)})
}

func (LifecycleTracer) WindowDestroyed() {
	logging.Trace("lifecycle.window.destroyed", nil)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
