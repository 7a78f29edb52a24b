package weather

import (
	"context"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

// trendWindow is the trailing window for trend queries.
const trendWindow = 7 * 24 * time.Hour

// Trend returns the city's temperature and humidity series over the trailing
// seven days as three parallel slices ordered by timestamp ascending. A city
// with no readings in the window yields empty slices, not an error.
func (s *Service) Trend(ctx context.Context, rawCity string) (model.TrendSeries, error) {
	canonical, err := s.normalizer.Normalize(rawCity)
	if err != nil {
		return model.TrendSeries{}, err
	}

	since := s.now().Add(-trendWindow)
	rows, err := s.store.RangeForCity(ctx, canonical, since)
	if err != nil {
		return model.TrendSeries{}, err
	}

	series := model.TrendSeries{
		Labels:      make([]string, 0, len(rows)),
		Temperature: make([]float64, 0, len(rows)),
		Humidity:    make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		series.Labels = append(series.Labels, r.Timestamp.Format("01/02 15:04"))
		series.Temperature = append(series.Temperature, r.TemperatureF)
		series.Humidity = append(series.Humidity, r.Humidity)
	}
	return series, nil
}
