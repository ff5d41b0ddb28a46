package sweeper

import (
	"context"
	"earn-server/internal/observability"
	"fmt"
	"time"
)

// Task drops in-memory state that is stale at now and reports how many
// entries it removed.
type Task struct {
	Name string
	Run  func(now time.Time) int
}

// Worker periodically sweeps ad attempt state, confirmation windows and
// rate limiter buckets.
type Worker struct {
	tasks    []Task
	logger   *observability.Logger
	stopChan chan struct{}
	interval time.Duration
	now      func() time.Time
}

func New(logger *observability.Logger, interval time.Duration, tasks ...Task) *Worker {
	return &Worker{
		tasks:    tasks,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
		now:      time.Now,
	}
}

// Start runs until ctx is cancelled or Stop is called
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info(ctx, "Starting sweeper")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-w.stopChan:
			w.logger.Info(ctx, "Stopping sweeper")
			return
		case <-ctx.Done():
			w.logger.Info(ctx, "Context cancelled, stopping sweeper")
			return
		}
	}
}

// Stop stops the background worker
func (w *Worker) Stop() {
	close(w.stopChan)
}

// Sweep runs every task once and returns the total removed
func (w *Worker) Sweep(ctx context.Context) int {
	now := w.now()
	total := 0
	for _, task := range w.tasks {
		removed := task.Run(now)
		if removed > 0 {
			w.logger.Debug(observability.WithFields(ctx, observability.Field{Key: "task", Value: task.Name}),
				fmt.Sprintf("swept %d entries", removed))
		}
		total += removed
	}
	return total
}
