package events

import "github.com/atomicstack/renderloop/internal/logging"

type QueueTracer struct{}

var Queue = QueueTracer{}

func (QueueTracer) Push(kind string, depth int) {
	logging.Trace("queue.push", map[string]interface{}{"kind": kind, "depth": depth})
}

func (QueueTracer) Drain(frame uint32, count int) {
	if count == 0 {
		return
	}
	logging.Trace("queue.drain", map[string]interface{}{"frame": frame, "count": count})
}
