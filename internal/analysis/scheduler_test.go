package analysis

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSchedulerSingleWorker(t *testing.T) {
	s := NewScheduler(slog.Default())

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do("task", func() error {
				current := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					seen := maxInFlight.Load()
					if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
						return nil
					}
				}
			})
		}()
	}
	wg.Wait()

	if got := maxInFlight.Load(); got != 1 {
		t.Errorf("max in-flight tasks = %d, want 1", got)
	}
}

func TestSchedulerPropagatesError(t *testing.T) {
	s := NewScheduler(slog.Default())
	want := errors.New("boom")
	if got := s.Do("failing", func() error { return want }); !errors.Is(got, want) {
		t.Errorf("Do() = %v, want %v", got, want)
	}
}
