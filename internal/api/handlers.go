package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

// WeatherReader is the aggregation surface the HTTP handlers expose.
type WeatherReader interface {
	Snapshots(ctx context.Context) ([]model.Snapshot, error)
	ActiveAlerts(ctx context.Context) ([]model.Alert, error)
	Trend(ctx context.Context, rawCity string) (model.TrendSeries, error)
	Forecast(ctx context.Context, rawCity string) (model.Forecast, error)
}

// Collector triggers one observation collection run on demand.
type Collector interface {
	Run(ctx context.Context) model.RunSummary
}

// Handler serves the dashboard's JSON API.
type Handler struct {
	weather   WeatherReader
	collector Collector
	logger    *slog.Logger
}

// NewHandler creates a Handler over the weather service and collector.
func NewHandler(weather WeatherReader, collector Collector, logger *slog.Logger) *Handler {
	return &Handler{weather: weather, collector: collector, logger: logger}
}

// Register mounts the API routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/latest", h.Latest)
	r.Get("/api/trends/{city}", h.Trends)
	r.Get("/api/alerts", h.Alerts)
	r.Get("/api/forecast/{city}", h.Forecast)
	r.Post("/api/collect", h.Collect)
}

// Latest returns the most recent snapshot for every city with stored data.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.weather.Snapshots(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshots)
}

// Trends returns the city's 7-day temperature and humidity series.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	series, err := h.weather.Trend(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, series)
}

// Alerts returns the threshold alerts active on the latest snapshots.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.weather.ActiveAlerts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, alerts)
}

// Forecast returns the city's hourly points and daily rollups.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.weather.Forecast(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, forecast)
}

// Collect runs one collection pass across all configured cities and returns
// the per-city results. Per-city failures are reported in the summary, not
// as an HTTP error.
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	summary := h.collector.Run(r.Context())
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := model.StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		h.logger.Warn("request rejected", "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
