package workqueue

import (
	"sync"
	"testing"
	"time"
)

func TestPopEmpty(t *testing.T) {
	q := New[int]()
	if v, ok := q.Pop(); ok {
		t.Fatalf("expected empty queue, got %d", v)
	}
	if q.Len() != 0 {
		t.Fatalf("expected len 0, got %d", q.Len())
	}
}

func TestFIFOSingleGoroutine(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 1000} {
		q := New[int]()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
		if q.Len() != n {
			t.Fatalf("expected len %d, got %d", n, q.Len())
		}
		for i := 0; i < n; i++ {
			v, ok := q.Pop()
			if !ok {
				t.Fatalf("n=%d: expected value at %d", n, i)
			}
			if v != i {
				t.Fatalf("n=%d: expected %d, got %d", n, i, v)
			}
		}
		if _, ok := q.Pop(); ok {
			t.Fatalf("n=%d: expected empty queue after draining", n)
		}
	}
}

func TestInterleavedPushPop(t *testing.T) {
	q := New[int]()
	next := 0
	want := 0
	for round := 0; round < 50; round++ {
		for i := 0; i < round%7; i++ {
			q.Push(next)
			next++
		}
		for i := 0; i < round%5; i++ {
			v, ok := q.Pop()
			if !ok {
				break
			}
			if v != want {
				t.Fatalf("expected %d, got %d", want, v)
			}
			want++
		}
	}
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		if v != want {
			t.Fatalf("expected %d, got %d", want, v)
		}
		want++
	}
	if want != next {
		t.Fatalf("expected %d values, observed %d", next, want)
	}
}

func TestRepeatedPopAfterEmptyDoesNotDuplicate(t *testing.T) {
	q := New[string]()
	q.Push("only")
	if v, ok := q.Pop(); !ok || v != "only" {
		t.Fatalf("expected only, got %q (%v)", v, ok)
	}
	for i := 0; i < 10; i++ {
		if v, ok := q.Pop(); ok {
			t.Fatalf("expected empty queue, got %q", v)
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const total = 200000
	q := New[int]()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(i)
		}
	}()

	got := 0
	deadline := time.Now().Add(10 * time.Second)
	for got < total {
		v, ok := q.Pop()
		if !ok {
			if time.Now().After(deadline) {
				t.Fatalf("timed out after %d values", got)
			}
			continue
		}
		if v != got {
			t.Fatalf("expected %d, got %d", got, v)
		}
		got++
	}
	wg.Wait()
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected empty queue after consuming all values")
	}
}

func TestBurstWhileConsumerStalled(t *testing.T) {
	q := New[int]()
	release := make(chan struct{})
	results := make(chan []int, 1)
	go func() {
		<-release
		var seen []int
		for {
			v, ok := q.Pop()
			if !ok {
				break
			}
			seen = append(seen, v)
		}
		results <- seen
	}()

	const burst = 5000
	for i := 0; i < burst; i++ {
		q.Push(i)
	}
	close(release)

	seen := <-results
	if len(seen) != burst {
		t.Fatalf("expected %d values, got %d", burst, len(seen))
	}
	for i, v := range seen {
		if v != i {
			t.Fatalf("expected %d at position %d, got %d", i, i, v)
		}
	}
}

func TestPopDoesNotAllocate(t *testing.T) {
	q := New[int]()
	for i := 0; i < 1000; i++ {
		q.Push(i)
	}
	allocs := testing.AllocsPerRun(500, func() {
		q.Pop()
	})
	if allocs != 0 {
		t.Fatalf("expected pop to be allocation free, got %.1f allocs", allocs)
	}
}

func BenchmarkPushPop(b *testing.B) {
	q := New[int]()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(i)
		q.Pop()
	}
}
