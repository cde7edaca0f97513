//go:build linux

package thread

import (
	"runtime"
	"testing"

	"golang.org/x/sys/unix"
)

func TestBodyStaysOnOneOSThread(t *testing.T) {
	th := Start("pinned", func() (int, error) {
		first := unix.Gettid()
		for i := 0; i < 100; i++ {
			runtime.Gosched()
			if tid := unix.Gettid(); tid != first {
				t.Errorf("thread migrated from %d to %d", first, tid)
				return -1, nil
			}
		}
		return 0, nil
	})
	if _, err := th.Join(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
