package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pranavdhawann/weather-dashboard/internal/cities"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/pranavdhawann/weather-dashboard/internal/observability"
)

// selectColumns reads nullable measurement columns with zero defaults so
// legacy rows with missing fields scan cleanly.
const selectColumns = `city, timestamp,
	COALESCE(temperature_f, 0), COALESCE(feels_like, 0), COALESCE(humidity, 0),
	COALESCE(pressure, 0), COALESCE(wind_speed, 0), COALESCE(visibility, 0),
	COALESCE(condition, ''), COALESCE(latitude, 0), COALESCE(longitude, 0)`

// Store provides persistence operations for weather readings backed by
// PostgreSQL. All city keys returned by read operations have passed through
// the normalizer; raw rows with inconsistent spellings collapse to their
// canonical city.
type Store struct {
	pool       *pgxpool.Pool
	normalizer *cities.Normalizer
	metrics    *observability.Metrics
}

// New creates a Store with the given connection pool, normalizer, and metrics.
func New(pool *pgxpool.Pool, n *cities.Normalizer, m *observability.Metrics) *Store {
	return &Store{pool: pool, normalizer: n, metrics: m}
}

func (s *Store) observeQuery(operation string, start time.Time) {
	s.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// InsertReading writes one reading. The insert is idempotent on
// (city, timestamp): a duplicate key is a no-op reported as inserted=false.
func (s *Store) InsertReading(ctx context.Context, r model.Reading) (bool, error) {
	defer s.observeQuery("insert", time.Now())
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO weather_readings
			(city, timestamp, temperature_f, feels_like, humidity, pressure,
			 wind_speed, visibility, condition, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (city, timestamp) DO NOTHING`,
		r.City, r.Timestamp, r.TemperatureF, r.FeelsLike, r.Humidity, r.Pressure,
		r.WindSpeed, r.Visibility, r.Condition, r.Latitude, r.Longitude,
	)
	if err != nil {
		return false, model.WrapError(model.KindStoreUnavailable, err, "insert reading for %s", r.City)
	}
	return tag.RowsAffected() > 0, nil
}

// LatestPerCity returns exactly one reading per canonical city: the raw rows
// are ranked newest-first per stored spelling in SQL, then spellings of the
// same city are collapsed through the normalizer keeping the maximum
// timestamp. The result is ordered by city name ascending.
func (s *Store) LatestPerCity(ctx context.Context) ([]model.Reading, error) {
	defer s.observeQuery("latest_per_city", time.Now())
	rows, err := s.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY city ORDER BY timestamp DESC
			) AS rn
			FROM weather_readings
		) ranked
		WHERE rn = 1`)
	if err != nil {
		return nil, model.WrapError(model.KindStoreUnavailable, err, "query latest readings")
	}
	defer rows.Close()

	var latest []model.Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, model.WrapError(model.KindStoreUnavailable, err, "scan latest reading")
		}
		latest = append(latest, r)
	}
	if err := rows.Err(); err != nil {
		return nil, model.WrapError(model.KindStoreUnavailable, err, "read latest readings")
	}

	return collapseLatest(latest, s.normalizer), nil
}

// RangeForCity returns the canonical city's readings strictly after since,
// ordered by timestamp ascending. Matching is tolerant so legacy rows stored
// under a misspelling of the same city are included.
func (s *Store) RangeForCity(ctx context.Context, canonical string, since time.Time) ([]model.Reading, error) {
	defer s.observeQuery("range_for_city", time.Now())
	rows, err := s.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM weather_readings
		WHERE (city = $1 OR city ILIKE $2) AND timestamp > $3
		ORDER BY timestamp ASC`,
		canonical, cities.MatchPattern(canonical), since,
	)
	if err != nil {
		return nil, model.WrapError(model.KindStoreUnavailable, err, "query readings for %s", canonical)
	}
	defer rows.Close()

	var out []model.Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, model.WrapError(model.KindStoreUnavailable, err, "scan reading for %s", canonical)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, model.WrapError(model.KindStoreUnavailable, err, "read readings for %s", canonical)
	}
	return out, nil
}

// CoordinatesForCity returns the most recently stored non-zero coordinates
// for the canonical city. Match order: exact name, tolerant spelling match,
// case-insensitive. ok is false when no stored row has coordinates.
func (s *Store) CoordinatesForCity(ctx context.Context, canonical string) (lat, lon float64, ok bool, err error) {
	defer s.observeQuery("coordinates_for_city", time.Now())

	conditions := []struct {
		clause string
		arg    string
	}{
		{"city = $1", canonical},
		{"city ILIKE $1", cities.MatchPattern(canonical)},
		{"LOWER(city) = LOWER($1)", canonical},
	}

	for _, c := range conditions {
		row := s.pool.QueryRow(ctx, `
			SELECT latitude, longitude
			FROM weather_readings
			WHERE `+c.clause+`
			  AND latitude IS NOT NULL AND longitude IS NOT NULL
			  AND (latitude <> 0 OR longitude <> 0)
			ORDER BY timestamp DESC
			LIMIT 1`, c.arg)

		scanErr := row.Scan(&lat, &lon)
		if scanErr == nil {
			return lat, lon, true, nil
		}
		if !errors.Is(scanErr, pgx.ErrNoRows) {
			return 0, 0, false, model.WrapError(model.KindStoreUnavailable, scanErr, "query coordinates for %s", canonical)
		}
	}
	return 0, 0, false, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReading(row scannable) (model.Reading, error) {
	var r model.Reading
	err := row.Scan(
		&r.City, &r.Timestamp, &r.TemperatureF, &r.FeelsLike, &r.Humidity,
		&r.Pressure, &r.WindSpeed, &r.Visibility, &r.Condition,
		&r.Latitude, &r.Longitude,
	)
	return r, err
}
