package analysis

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler serializes the pipeline's tasks: at most one task, and therefore
// at most one network request, is ever in flight. The upstream quota counters
// are shared mutable state (the daily one even across restarts), so the
// backpressure contract is enforced structurally instead of with ad-hoc
// sequential calls.
type Scheduler struct {
	mu     sync.Mutex
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Do runs fn exclusively, blocking until any in-flight task finishes.
func (s *Scheduler) Do(name string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := fn()
	s.logger.Debug("Task finished", "task", name, "duration", time.Since(start), "error", err)
	return err
}
