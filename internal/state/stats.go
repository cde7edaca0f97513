package state

import "github.com/atomicstack/renderloop/internal/backend"

type StatsStore interface {
	Runtime() backend.RuntimeSnapshot
	SetRuntime(backend.RuntimeSnapshot)
	Memory() backend.MemorySnapshot
	SetMemory(backend.MemorySnapshot)
	Samples() int
}

type statsStore struct {
	runtime backend.RuntimeSnapshot
	memory  backend.MemorySnapshot
	samples int
}

func NewStatsStore() StatsStore {
	return &statsStore{}
}

func (s *statsStore) Runtime() backend.RuntimeSnapshot {
	return s.runtime
}

func (s *statsStore) SetRuntime(snap backend.RuntimeSnapshot) {
	s.runtime = snap
	s.samples++
}

func (s *statsStore) Memory() backend.MemorySnapshot {
	return s.memory
}

func (s *statsStore) SetMemory(snap backend.MemorySnapshot) {
	s.memory = snap
	s.samples++
}

func (s *statsStore) Samples() int {
	return s.samples
}
