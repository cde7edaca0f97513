package dispatcher

import (
	"fmt"

	"github.com/atomicstack/renderloop/internal/backend"
	"github.com/atomicstack/renderloop/internal/state"
)

type Result struct {
	RuntimeUpdated bool
	MemoryUpdated  bool
	Failed         bool
}

// Dispatcher applies watcher samples to the stores. It is not safe for
// concurrent use; the demo calls it from the render thread only.
type Dispatcher struct {
	stats state.StatsStore
	log   state.EventLog
}

func New(stats state.StatsStore, log state.EventLog) *Dispatcher {
	return &Dispatcher{stats: stats, log: log}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		d.log.Append(fmt.Sprintf("sample %s failed: %v", evt.Kind, evt.Err))
		res.Failed = true
		return res
	}
	switch evt.Kind {
	case backend.KindRuntime:
		if snapshot, ok := evt.Data.(backend.RuntimeSnapshot); ok {
			d.stats.SetRuntime(snapshot)
			res.RuntimeUpdated = true
		}
	case backend.KindMemory:
		if snapshot, ok := evt.Data.(backend.MemorySnapshot); ok {
			d.stats.SetMemory(snapshot)
			res.MemoryUpdated = true
		}
	}
	return res
}
