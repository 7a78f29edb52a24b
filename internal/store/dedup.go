package store

import (
	"sort"

	"github.com/pranavdhawann/weather-dashboard/internal/cities"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

// collapseLatest reduces per-spelling latest rows to one row per canonical
// city, keeping the reading with the maximum timestamp and rewriting its city
// to the canonical name. Rows whose city the normalizer rejects keep their raw
// name and form their own partition, so legacy data still appears. Output is
// ordered by city name ascending.
func collapseLatest(latest []model.Reading, n *cities.Normalizer) []model.Reading {
	byCity := make(map[string]model.Reading, len(latest))
	for _, r := range latest {
		key := r.City
		if canonical, err := n.Normalize(r.City); err == nil {
			key = canonical
		}
		best, seen := byCity[key]
		if !seen || r.Timestamp.After(best.Timestamp) {
			r.City = key
			byCity[key] = r
		}
	}

	out := make([]model.Reading, 0, len(byCity))
	for _, r := range byCity {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}
