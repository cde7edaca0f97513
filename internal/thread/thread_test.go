package thread

import (
	"errors"
	"testing"
	"time"
)

func TestJoinReturnsStatus(t *testing.T) {
	th := Start("status", func() (int, error) {
		return 7, nil
	})
	status, err := th.Join()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != 7 {
		t.Fatalf("expected status 7, got %d", status)
	}
	if !th.Exited() {
		t.Fatalf("expected thread to report exit after join")
	}
	if th.Name() != "status" {
		t.Fatalf("expected name status, got %q", th.Name())
	}
}

func TestJoinReturnsError(t *testing.T) {
	boom := errors.New("boom")
	th := Start("err", func() (int, error) {
		return -1, boom
	})
	status, err := th.Join()
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if status != -1 {
		t.Fatalf("expected status -1, got %d", status)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	cause := errors.New("cause")
	th := Start("panicky", func() (int, error) {
		panic(cause)
	})
	status, err := th.Join()
	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if perr.Name != "panicky" {
		t.Fatalf("expected thread name panicky, got %q", perr.Name)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected panic value to unwrap to cause")
	}
	if len(perr.Stack) == 0 {
		t.Fatalf("expected stack to be captured")
	}
	if status != -1 {
		t.Fatalf("expected status -1, got %d", status)
	}
}

func TestDoneClosesAfterBodyReturns(t *testing.T) {
	release := make(chan struct{})
	th := Start("gate", func() (int, error) {
		<-release
		return 0, nil
	})
	if th.Exited() {
		t.Fatalf("expected thread to still be running")
	}
	close(release)
	select {
	case <-th.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for thread exit")
	}
	if _, err := th.Join(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
