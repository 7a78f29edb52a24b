package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/archive"
	"github.com/pranavdhawann/weather-dashboard/internal/cities"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/pranavdhawann/weather-dashboard/internal/observability"
	"github.com/pranavdhawann/weather-dashboard/internal/openweather"
)

// CurrentFetcher abstracts the weather provider for testability.
type CurrentFetcher interface {
	RawCurrentByCity(ctx context.Context, city string) (*openweather.CurrentConditions, []byte, error)
}

// ReadingInserter abstracts the store dependency for testability.
type ReadingInserter interface {
	InsertReading(ctx context.Context, r model.Reading) (bool, error)
}

// AlertPublisher abstracts the notification sink.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []model.Alert) error
}

// Pipeline collects current conditions for the configured cities: fetch,
// archive the raw payload, shape into a reading, persist, and evaluate alert
// thresholds. Cities are processed sequentially and independently; one city's
// failure never aborts the run.
type Pipeline struct {
	cities     []string
	provider   CurrentFetcher
	store      ReadingInserter
	archive    archive.Writer
	notifier   AlertPublisher
	normalizer *cities.Normalizer
	logger     *slog.Logger
	metrics    *observability.Metrics

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Pipeline for the given city list.
func New(
	cityList []string,
	provider CurrentFetcher,
	store ReadingInserter,
	arch archive.Writer,
	notifier AlertPublisher,
	normalizer *cities.Normalizer,
	m *observability.Metrics,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		cities:     cityList,
		provider:   provider,
		store:      store,
		archive:    arch,
		notifier:   notifier,
		normalizer: normalizer,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Run executes one collection pass and returns the item-by-item summary.
// If any alerts fired, exactly one batched notification is sent; a publish
// failure is logged and suppressed since collection itself succeeded.
func (p *Pipeline) Run(ctx context.Context) model.RunSummary {
	p.metrics.CollectionRunsTotal.Inc()
	p.logger.Info("collection run started", "cities", len(p.cities))

	results := make([]model.CityResult, 0, len(p.cities))
	var alerts []model.Alert

	for _, city := range p.cities {
		reading, cityAlerts, err := p.collectCity(ctx, city)
		if err != nil {
			p.metrics.CitiesCollectedTotal.WithLabelValues(model.StatusError).Inc()
			p.logger.Error("collect city", "city", city, "error", err)
			results = append(results, model.CityResult{
				City:   city,
				Status: model.StatusError,
				Error:  err.Error(),
			})
			continue
		}

		p.metrics.CitiesCollectedTotal.WithLabelValues(model.StatusSuccess).Inc()
		temp := reading.TemperatureF
		results = append(results, model.CityResult{
			City:         city,
			Status:       model.StatusSuccess,
			TemperatureF: &temp,
		})
		for _, a := range cityAlerts {
			p.metrics.AlertsFiredTotal.WithLabelValues(string(a.Kind)).Inc()
		}
		alerts = append(alerts, cityAlerts...)
	}

	if len(alerts) > 0 {
		if err := p.notifier.PublishAlerts(ctx, alerts); err != nil {
			p.logger.Error("publish alerts", "error", err, "alerts", len(alerts))
		}
	}

	summary := model.RunSummary{
		Message: fmt.Sprintf("Weather data collection completed for %d cities", len(p.cities)),
		Results: results,
		Alerts:  len(alerts),
	}
	p.logger.Info("collection run finished", "alerts", summary.Alerts)
	return summary
}

// collectCity runs the fetch-archive-shape-persist-evaluate steps for one city.
func (p *Pipeline) collectCity(ctx context.Context, city string) (model.Reading, []model.Alert, error) {
	conditions, raw, err := p.provider.RawCurrentByCity(ctx, city)
	if err != nil {
		return model.Reading{}, nil, err
	}

	capturedAt := p.now().UTC().Truncate(time.Second)
	if err := p.archive.Put(city, capturedAt, raw); err != nil {
		return model.Reading{}, nil, fmt.Errorf("archive raw payload: %w", err)
	}

	reading := p.shape(city, conditions, capturedAt)
	if _, err := p.store.InsertReading(ctx, reading); err != nil {
		return model.Reading{}, nil, err
	}

	return reading, model.EvaluateThresholds(reading.City, reading.TemperatureF, reading.WindSpeed), nil
}

// shape converts a provider payload into the canonical reading record. The
// provider's own city spelling passes through the normalizer; when it is not
// a registry name the configured city is used, so inconsistent provider
// variants never become new store keys.
func (p *Pipeline) shape(configuredCity string, c *openweather.CurrentConditions, capturedAt time.Time) model.Reading {
	city := configuredCity
	if canonical, err := p.normalizer.Normalize(c.Name); err == nil {
		city = canonical
	} else if canonical, err := p.normalizer.Normalize(configuredCity); err == nil {
		city = canonical
	}

	return model.Reading{
		City:         city,
		Timestamp:    capturedAt,
		TemperatureF: round2(c.Main.Temp),
		FeelsLike:    round2(c.Main.FeelsLike),
		Humidity:     c.Main.Humidity,
		Pressure:     c.Main.Pressure,
		WindSpeed:    round2(c.Wind.Speed),
		Visibility:   c.Visibility,
		Condition:    c.Description(),
		Latitude:     c.Coord.Lat,
		Longitude:    c.Coord.Lon,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
