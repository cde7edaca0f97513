// Package throttle spaces out repeated operations.
package throttle

import (
	"sync"
	"time"
)

// Throttle ensures a minimum interval between successive calls to Wait.
// A nil Throttle, or one with a non-positive interval, never waits.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)

	mu   sync.Mutex
	next time.Time
}

// New returns a throttle allowing one operation per interval.
func New(interval time.Duration) *Throttle {
	t := &Throttle{now: time.Now, sleep: time.Sleep}
	if interval > 0 {
		t.interval = interval
	}
	return t
}

// Wait blocks until the interval since the previous call has passed.
func (t *Throttle) Wait() {
	if t == nil || t.interval <= 0 {
		return
	}
	for {
		t.mu.Lock()
		now := t.now()
		wait := t.next.Sub(now)
		if wait <= 0 {
			t.next = now.Add(t.interval)
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		t.sleep(min(wait, t.interval))
	}
}
