package state

import (
	"reflect"
	"testing"

	"github.com/atomicstack/renderloop/internal/backend"
)

func TestEventLogKeepsNewest(t *testing.T) {
	log := NewEventLog(3)
	if log.Entries() != nil {
		t.Fatalf("new log should be empty")
	}
	for _, e := range []string{"a", "b", "c", "d", "e"} {
		log.Append(e)
	}
	if got := log.Entries(); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Fatalf("entries = %v", got)
	}
	if log.Len() != 3 || log.Dropped() != 2 {
		t.Fatalf("len = %d, dropped = %d", log.Len(), log.Dropped())
	}
	entries := log.Entries()
	entries[0] = "mutated"
	if log.Entries()[0] != "c" {
		t.Fatalf("Entries must return a copy")
	}
}

func TestStatsStore(t *testing.T) {
	s := NewStatsStore()
	s.SetRuntime(backend.RuntimeSnapshot{Goroutines: 3})
	s.SetMemory(backend.MemorySnapshot{HeapAlloc: 42})
	if s.Runtime().Goroutines != 3 || s.Memory().HeapAlloc != 42 || s.Samples() != 2 {
		t.Fatalf("store = %+v %+v %d", s.Runtime(), s.Memory(), s.Samples())
	}
}
