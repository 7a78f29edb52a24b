package model

import "fmt"

// Alert thresholds. All comparisons are strict: a reading exactly at the
// threshold does not fire.
const (
	HeatThresholdF   = 95.0
	ColdThresholdF   = 20.0
	WindThresholdMph = 50.0
)

// EvaluateThresholds returns every alert a reading fires. Multiple thresholds
// may fire independently for the same reading.
func EvaluateThresholds(city string, temperatureF, windSpeed float64) []Alert {
	var alerts []Alert
	if temperatureF > HeatThresholdF {
		alerts = append(alerts, Alert{
			Kind:    AlertHeat,
			City:    city,
			Message: fmt.Sprintf("HEAT ALERT: %s - %g°F", city, temperatureF),
		})
	}
	if temperatureF < ColdThresholdF {
		alerts = append(alerts, Alert{
			Kind:    AlertCold,
			City:    city,
			Message: fmt.Sprintf("COLD ALERT: %s - %g°F", city, temperatureF),
		})
	}
	if windSpeed > WindThresholdMph {
		alerts = append(alerts, Alert{
			Kind:    AlertWind,
			City:    city,
			Message: fmt.Sprintf("HIGH WIND ALERT: %s - %g mph", city, windSpeed),
		})
	}
	return alerts
}
