package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ──────────────────────────────────────────────────

type fakeWeather struct {
	snapshots []model.Snapshot
	alerts    []model.Alert
	series    model.TrendSeries
	forecast  model.Forecast
	err       error

	trendCity, forecastCity string
}

func (f *fakeWeather) Snapshots(ctx context.Context) ([]model.Snapshot, error) {
	return f.snapshots, f.err
}

func (f *fakeWeather) ActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	return f.alerts, f.err
}

func (f *fakeWeather) Trend(ctx context.Context, rawCity string) (model.TrendSeries, error) {
	f.trendCity = rawCity
	return f.series, f.err
}

func (f *fakeWeather) Forecast(ctx context.Context, rawCity string) (model.Forecast, error) {
	f.forecastCity = rawCity
	return f.forecast, f.err
}

type fakeCollector struct {
	summary model.RunSummary
	calls   int
}

func (f *fakeCollector) Run(ctx context.Context) model.RunSummary {
	f.calls++
	return f.summary
}

func newTestRouter(weather *fakeWeather, collector *fakeCollector) chi.Router {
	r := chi.NewRouter()
	NewHandler(weather, collector, slog.Default()).Register(r)
	return r
}

func doRequest(t *testing.T, router chi.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ─── Endpoint tests ─────────────────────────────────────────

func TestLatest(t *testing.T) {
	weather := &fakeWeather{snapshots: []model.Snapshot{
		{City: "Tokyo", TemperatureF: 88.2, Condition: "clear sky"},
	}}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/latest")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []model.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Tokyo", got[0].City)
	assert.Equal(t, 88.2, got[0].TemperatureF)
}

func TestLatest_StoreUnavailable(t *testing.T) {
	weather := &fakeWeather{err: model.NewError(model.KindStoreUnavailable, "db unreachable")}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/latest")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "db unreachable", body["error"])
}

func TestTrends(t *testing.T) {
	weather := &fakeWeather{series: model.TrendSeries{
		Labels:      []string{"08/29 09:30"},
		Temperature: []float64{70},
		Humidity:    []float64{55},
	}}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/trends/Tokyo")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tokyo", weather.trendCity)

	var got model.TrendSeries
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []float64{70}, got.Temperature)
}

func TestTrends_UnknownCity(t *testing.T) {
	weather := &fakeWeather{err: model.NewError(model.KindNotFound, `unknown city "Gotham"`)}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/trends/Gotham")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlerts_EmptyEncodesAsArray(t *testing.T) {
	weather := &fakeWeather{alerts: []model.Alert{}}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/alerts")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestForecast(t *testing.T) {
	weather := &fakeWeather{forecast: model.Forecast{
		City:  "São Paulo",
		Daily: []model.ForecastDay{{Date: "2026-08-30", TempMin: 60, TempMax: 75}},
	}}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/forecast/Sao%20Paulo")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sao Paulo", weather.forecastCity)

	var got model.Forecast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "São Paulo", got.City)
}

func TestForecast_UpstreamUnavailable(t *testing.T) {
	weather := &fakeWeather{err: model.NewError(model.KindUpstreamUnavailable, "provider returned status 500")}
	rec := doRequest(t, newTestRouter(weather, &fakeCollector{}), http.MethodGet, "/api/forecast/Tokyo")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCollect(t *testing.T) {
	temp := 88.2
	collector := &fakeCollector{summary: model.RunSummary{
		Message: "Weather data collection completed for 2 cities",
		Results: []model.CityResult{
			{City: "Tokyo", Status: model.StatusSuccess, TemperatureF: &temp},
			{City: "London", Status: model.StatusError, Error: "provider returned status 502"},
		},
		Alerts: 0,
	}}
	rec := doRequest(t, newTestRouter(&fakeWeather{}, collector), http.MethodPost, "/api/collect")

	// Per-city failures are part of the summary, not an HTTP failure.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, collector.calls)

	var got model.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, model.StatusError, got.Results[1].Status)
}

func TestCollect_GetNotAllowed(t *testing.T) {
	rec := doRequest(t, newTestRouter(&fakeWeather{}, &fakeCollector{}), http.MethodGet, "/api/collect")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ─── Concurrency limit ──────────────────────────────────────

func TestConcurrencyLimit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := ConcurrencyLimit(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/latest", nil))
	}()
	<-entered

	// Second request while the slot is held is rejected, not queued.
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/latest", nil))
	assert.Equal(t, http.StatusServiceUnavailable, second.Code)
	assert.JSONEq(t, `{"error":"server busy, try again"}`, second.Body.String())

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)
}
