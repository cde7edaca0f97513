// Package workqueue provides an unbounded single-producer/single-consumer queue.
//
// Exactly one goroutine may call Push and exactly one goroutine may call Pop.
// Both operations are lock-free and never block. Callers that need several
// producers must serialise them externally.
package workqueue

import "sync/atomic"

type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// Queue is a linked SPSC queue. The zero value is not usable; call New.
type Queue[T any] struct {
	// head is owned by the consumer and always points at a consumed (stub) node.
	head *node[T]
	// tail is owned by the producer.
	tail *node[T]

	pushed atomic.Uint64
	popped atomic.Uint64
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	stub := &node[T]{}
	return &Queue[T]{head: stub, tail: stub}
}

// Push appends v. Producer side only.
func (q *Queue[T]) Push(v T) {
	n := &node[T]{value: v}
	// The atomic store publishes n.value to the consumer.
	q.tail.next.Store(n)
	q.tail = n
	q.pushed.Add(1)
}

// Pop removes and returns the oldest value. ok is false when the queue is
// empty. Consumer side only.
func (q *Queue[T]) Pop() (v T, ok bool) {
	next := q.head.next.Load()
	if next == nil {
		return v, false
	}
	v = next.value
	var zero T
	next.value = zero
	q.head = next
	q.popped.Add(1)
	return v, true
}

// Len reports the number of queued values. It is a snapshot and may be stale
// by the time it is read; use it for tracing only.
func (q *Queue[T]) Len() int {
	popped := q.popped.Load()
	pushed := q.pushed.Load()
	if pushed < popped {
		return 0
	}
	return int(pushed - popped)
}
