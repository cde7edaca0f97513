package throttle

import (
	"testing"
	"time"
)

func fakeClock(th *Throttle) (*time.Time, *[]time.Duration) {
	now := time.Unix(0, 0)
	var slept []time.Duration
	th.now = func() time.Time { return now }
	th.sleep = func(d time.Duration) {
		slept = append(slept, d)
		now = now.Add(d)
	}
	return &now, &slept
}

func TestWaitSpacesCalls(t *testing.T) {
	th := New(10 * time.Millisecond)
	now, slept := fakeClock(th)

	th.Wait()
	*now = now.Add(4 * time.Millisecond)
	th.Wait()
	*now = now.Add(30 * time.Millisecond)
	th.Wait()

	if len(*slept) != 1 || (*slept)[0] != 6*time.Millisecond {
		t.Fatalf("slept = %v, want [6ms]", *slept)
	}
}

func TestWaitDisabled(t *testing.T) {
	var nilThrottle *Throttle
	nilThrottle.Wait()

	th := New(0)
	_, slept := fakeClock(th)
	th.Wait()
	th.Wait()
	if len(*slept) != 0 {
		t.Fatalf("disabled throttle slept %v", *slept)
	}
}
