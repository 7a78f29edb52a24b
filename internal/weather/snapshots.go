package weather

import (
	"context"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

const localTimeUnavailable = "N/A"

// Snapshots returns one snapshot per canonical city from the latest stored
// readings. A store failure aborts the whole call; no partial snapshot set is
// meaningful without the base query. A missing timezone for a city only
// degrades that city's local time to "N/A".
func (s *Service) Snapshots(ctx context.Context) ([]model.Snapshot, error) {
	latest, err := s.store.LatestPerCity(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]model.Snapshot, 0, len(latest))
	for _, r := range latest {
		feelsLike := r.FeelsLike
		if feelsLike == 0 {
			feelsLike = r.TemperatureF
		}

		snapshots = append(snapshots, model.Snapshot{
			City:         r.City,
			Timestamp:    r.Timestamp,
			LocalTime:    s.localTime(r.City),
			TemperatureF: r.TemperatureF,
			FeelsLike:    feelsLike,
			Humidity:     r.Humidity,
			Pressure:     r.Pressure,
			WindSpeed:    r.WindSpeed,
			Visibility:   r.Visibility,
			Condition:    r.Condition,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			Mappable:     r.HasCoordinates(),
		})
	}
	return snapshots, nil
}

// ActiveAlerts evaluates the alert thresholds against the current snapshots.
// Alerts are ephemeral; the returned slice is never empty-nil so it encodes
// as a JSON array.
func (s *Service) ActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	latest, err := s.store.LatestPerCity(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]model.Alert, 0)
	for _, r := range latest {
		alerts = append(alerts, model.EvaluateThresholds(r.City, r.TemperatureF, r.WindSpeed)...)
	}
	return alerts, nil
}

// localTime reports the current wall-clock time in the city's registered
// timezone. It reflects "now" in that city, not the reading's capture time.
func (s *Service) localTime(city string) string {
	tz := s.registry.Timezone(city)
	if tz == "" {
		return localTimeUnavailable
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.logger.Warn("load timezone", "city", city, "tz", tz, "error", err)
		return localTimeUnavailable
	}
	return s.now().In(loc).Format("03:04 PM")
}
