package api

import (
	"net/http"

	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimit restricts the number of concurrent API requests so a
// burst of dashboard refreshes cannot exhaust the pgx connection pool.
// Requests over the limit are rejected immediately rather than queued.
func ConcurrencyLimit(limit int64) func(http.Handler) http.Handler {
	sem := semaphore.NewWeighted(limit)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sem.TryAcquire(1) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":"server busy, try again"}`))
				return
			}
			defer sem.Release(1)
			next.ServeHTTP(w, r)
		})
	}
}
