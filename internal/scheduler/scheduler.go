package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

// runTimeout bounds one full collection pass across all cities.
const runTimeout = 5 * time.Minute

// Collector runs one observation collection pass.
type Collector interface {
	Run(ctx context.Context) model.RunSummary
}

// Scheduler triggers periodic collection runs. Runs never overlap; if a pass
// overruns the interval the next tick is skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	collector Collector
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler that runs the collector every interval.
func New(collector Collector, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		collector: collector,
		interval:  interval,
		logger:    logger,
	}
}

// Start registers the collection job and starts the scheduler in the
// background.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		summary := s.collector.Run(ctx)

		failed := 0
		for _, r := range summary.Results {
			if r.Status == model.StatusError {
				failed++
			}
		}
		s.logger.Info("scheduled collection finished",
			"cities", len(summary.Results),
			"failed", failed,
			"alerts", summary.Alerts,
		)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("collection scheduler started", "interval", s.interval)
	return nil
}

// Stop stops the scheduler and cancels future runs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
