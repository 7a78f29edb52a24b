package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCollector struct {
	runs atomic.Int64
	ran  chan struct{}
}

func (c *countingCollector) Run(ctx context.Context) model.RunSummary {
	if c.runs.Add(1) == 1 {
		close(c.ran)
	}
	return model.RunSummary{
		Message: "Weather data collection completed for 1 cities",
		Results: []model.CityResult{{City: "Tokyo", Status: model.StatusSuccess}},
	}
}

func TestScheduler_RunsCollector(t *testing.T) {
	collector := &countingCollector{ran: make(chan struct{})}
	s := New(collector, 20*time.Millisecond, slog.Default())
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-collector.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("collector was not invoked")
	}
}

func TestScheduler_StopPreventsFurtherRuns(t *testing.T) {
	collector := &countingCollector{ran: make(chan struct{})}
	s := New(collector, 20*time.Millisecond, slog.Default())
	require.NoError(t, s.Start())

	<-collector.ran
	s.Stop()

	settled := collector.runs.Load()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, collector.runs.Load(), settled+1, "no new runs after stop beyond one in flight")
}
