package model

import "time"

// ─── Core types ─────────────────────────────────────────────

// Reading is one weather observation for a city, as persisted in the database.
// Readings are immutable once written; the (City, Timestamp) pair is unique.
type Reading struct {
	City         string    `json:"city"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureF float64   `json:"temperature_f"`
	FeelsLike    float64   `json:"feels_like"`
	Humidity     float64   `json:"humidity"`
	Pressure     float64   `json:"pressure"`
	WindSpeed    float64   `json:"wind_speed"`
	Visibility   float64   `json:"visibility"`
	Condition    string    `json:"condition"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
}

// HasCoordinates reports whether the reading carries usable coordinates.
// Zero lat/lon means the provider sent none; such readings are kept in
// tabular output but skipped by any spatial rendering.
func (r Reading) HasCoordinates() bool {
	return r.Latitude != 0 || r.Longitude != 0
}

// Snapshot is the dashboard view of a city's most recent reading plus the
// current wall-clock time in that city. Derived on every query, never stored.
type Snapshot struct {
	City         string    `json:"city"`
	Timestamp    time.Time `json:"timestamp"`
	LocalTime    string    `json:"local_time"`
	TemperatureF float64   `json:"temperature"`
	FeelsLike    float64   `json:"feels_like"`
	Humidity     float64   `json:"humidity"`
	Pressure     float64   `json:"pressure"`
	WindSpeed    float64   `json:"wind_speed"`
	Visibility   float64   `json:"visibility"`
	Condition    string    `json:"condition"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Mappable     bool      `json:"mappable"`
}

// TrendSeries holds a city's trailing temperature and humidity series as
// three parallel, equal-length slices ordered by timestamp ascending.
// All three are empty (not nil) when no rows fall inside the window.
type TrendSeries struct {
	Labels      []string  `json:"labels"`
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
}

// ─── Alerts ─────────────────────────────────────────────────

// AlertKind classifies a threshold alert.
type AlertKind string

// Allowed AlertKind values.
const (
	AlertHeat AlertKind = "heat"
	AlertCold AlertKind = "cold"
	AlertWind AlertKind = "wind"
)

// Alert is an ephemeral threshold crossing for one city. Alerts exist only
// for the duration of one evaluation pass and are never persisted.
type Alert struct {
	Kind    AlertKind `json:"type"`
	City    string    `json:"city"`
	Message string    `json:"message"`
}

// ─── Forecast types ─────────────────────────────────────────

// ForecastPoint is one 3-hour forecast slot mapped from the upstream feed.
// Pop is probability of precipitation on a 0-100 scale.
type ForecastPoint struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureF float64 `json:"temperature"`
	FeelsLike    float64 `json:"feels_like"`
	TempMin      float64 `json:"temp_min"`
	TempMax      float64 `json:"temp_max"`
	Humidity     float64 `json:"humidity"`
	Pressure     float64 `json:"pressure"`
	Condition    string  `json:"condition"`
	WindSpeed    float64 `json:"wind_speed"`
	Pop          float64 `json:"pop"`
}

// ForecastDay is the daily rollup of a date's 3-hour points. The condition is
// taken from the middle point of the day, by insertion order.
type ForecastDay struct {
	Date         string  `json:"date"`
	TempMin      float64 `json:"temp_min"`
	TempMax      float64 `json:"temp_max"`
	TempAvg      float64 `json:"temp_avg"`
	Condition    string  `json:"condition"`
	HumidityAvg  float64 `json:"humidity_avg"`
	WindSpeedAvg float64 `json:"wind_speed_avg"`
	PopMax       float64 `json:"pop_max"`
}

// Forecast bundles the hourly slice and daily summaries for one city.
type Forecast struct {
	City   string          `json:"city"`
	Hourly []ForecastPoint `json:"hourly"`
	Daily  []ForecastDay   `json:"daily"`
}

// ─── Ingestion results ──────────────────────────────────────

// CityResult reports the outcome of ingesting one city.
type CityResult struct {
	City         string   `json:"city"`
	Status       string   `json:"status"`
	TemperatureF *float64 `json:"temperature,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Allowed CityResult statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RunSummary is the item-by-item outcome of one collection run.
type RunSummary struct {
	Message string       `json:"message"`
	Results []CityResult `json:"results"`
	Alerts  int          `json:"alerts"`
}
