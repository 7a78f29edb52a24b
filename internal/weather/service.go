package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/cities"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/pranavdhawann/weather-dashboard/internal/openweather"
)

// ReadingSource abstracts the reading store for the aggregators.
type ReadingSource interface {
	LatestPerCity(ctx context.Context) ([]model.Reading, error)
	RangeForCity(ctx context.Context, canonical string, since time.Time) ([]model.Reading, error)
	CoordinatesForCity(ctx context.Context, canonical string) (lat, lon float64, ok bool, err error)
}

// ForecastFetcher abstracts the forecast provider.
type ForecastFetcher interface {
	Forecast(ctx context.Context, lat, lon float64) (*openweather.ForecastResponse, error)
}

// Service derives the dashboard views: latest snapshots, trend series,
// active alerts, and forecast summaries. Everything here is recomputed per
// request; nothing is cached or persisted.
type Service struct {
	store      ReadingSource
	forecaster ForecastFetcher
	registry   *cities.Registry
	normalizer *cities.Normalizer
	logger     *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a Service over the given store and forecast provider.
func NewService(store ReadingSource, forecaster ForecastFetcher, registry *cities.Registry, normalizer *cities.Normalizer, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		forecaster: forecaster,
		registry:   registry,
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
}
