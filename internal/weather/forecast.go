package weather

import (
	"context"
	"sort"
	"strings"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/pranavdhawann/weather-dashboard/internal/openweather"
)

const (
	maxHourlyPoints = 24
	maxDailyDays    = 5
)

// Forecast resolves the city's coordinates, fetches the 3-hour forecast
// feed, and returns the first day of hourly points plus five daily rollups.
// Coordinates come from the most recent stored reading when available,
// otherwise the static fallback table.
func (s *Service) Forecast(ctx context.Context, rawCity string) (model.Forecast, error) {
	canonical, err := s.normalizer.Normalize(rawCity)
	if err != nil {
		return model.Forecast{}, err
	}

	lat, lon, ok, err := s.store.CoordinatesForCity(ctx, canonical)
	if err != nil {
		return model.Forecast{}, err
	}
	if !ok {
		lat, lon, ok = s.registry.FallbackCoordinates(canonical)
	}
	if !ok {
		return model.Forecast{}, model.NewError(model.KindNotFound, "coordinates not found for %s", canonical)
	}

	resp, err := s.forecaster.Forecast(ctx, lat, lon)
	if err != nil {
		return model.Forecast{}, err
	}

	points := mapForecastPoints(resp.List)
	daily := rollupDaily(points)

	hourly := points
	if len(hourly) > maxHourlyPoints {
		hourly = hourly[:maxHourlyPoints]
	}
	if len(daily) > maxDailyDays {
		daily = daily[:maxDailyDays]
	}

	return model.Forecast{City: canonical, Hourly: hourly, Daily: daily}, nil
}

// mapForecastPoints shapes the provider's 3-hour slots. Probability of
// precipitation is scaled from a 0-1 fraction to a 0-100 percentage.
func mapForecastPoints(items []openweather.ForecastItem) []model.ForecastPoint {
	points := make([]model.ForecastPoint, 0, len(items))
	for _, item := range items {
		condition := ""
		if len(item.Weather) > 0 {
			condition = item.Weather[0].Description
		}
		points = append(points, model.ForecastPoint{
			Timestamp:    item.DtTxt,
			TemperatureF: item.Main.Temp,
			FeelsLike:    item.Main.FeelsLike,
			TempMin:      item.Main.TempMin,
			TempMax:      item.Main.TempMax,
			Humidity:     item.Main.Humidity,
			Pressure:     item.Main.Pressure,
			Condition:    condition,
			WindSpeed:    item.Wind.Speed,
			Pop:          item.Pop * 100,
		})
	}
	return points
}

// rollupDaily groups points by the date portion of their timestamp and
// collapses each date: min/max/avg temperature, the middle point's condition,
// average humidity and wind, and the maximum precipitation probability.
// Output is sorted by date ascending.
func rollupDaily(points []model.ForecastPoint) []model.ForecastDay {
	byDate := make(map[string][]model.ForecastPoint)
	for _, p := range points {
		date, _, _ := strings.Cut(p.Timestamp, " ")
		byDate[date] = append(byDate[date], p)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]model.ForecastDay, 0, len(dates))
	for _, date := range dates {
		group := byDate[date]

		day := model.ForecastDay{
			Date:      date,
			TempMin:   group[0].TemperatureF,
			TempMax:   group[0].TemperatureF,
			Condition: group[len(group)/2].Condition,
		}
		var tempSum, humiditySum, windSum float64
		for _, p := range group {
			if p.TemperatureF < day.TempMin {
				day.TempMin = p.TemperatureF
			}
			if p.TemperatureF > day.TempMax {
				day.TempMax = p.TemperatureF
			}
			if p.Pop > day.PopMax {
				day.PopMax = p.Pop
			}
			tempSum += p.TemperatureF
			humiditySum += p.Humidity
			windSum += p.WindSpeed
		}
		n := float64(len(group))
		day.TempAvg = tempSum / n
		day.HumidityAvg = humiditySum / n
		day.WindSpeedAvg = windSum / n

		days = append(days, day)
	}
	return days
}
