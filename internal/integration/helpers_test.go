//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/cities"
	"github.com/pranavdhawann/weather-dashboard/internal/database"
	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/pranavdhawann/weather-dashboard/internal/observability"
	"github.com/pranavdhawann/weather-dashboard/internal/store"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcKafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startPostgres(ctx context.Context, t *testing.T) (string, testcontainers.Container) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start postgres")

	host, _ := pg.Host(ctx)
	port, _ := pg.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())
	return dsn, pg
}

func startKafka(ctx context.Context, t *testing.T) (string, *tcKafka.KafkaContainer) {
	t.Helper()
	kc, err := tcKafka.Run(ctx, "confluentinc/confluent-local:7.6.0")
	require.NoError(t, err, "start kafka")

	brokers, err := kc.Brokers(ctx)
	require.NoError(t, err, "get brokers")
	return brokers[0], kc
}

// setupStore starts Postgres, runs migrations, and registers cleanup.
// Returns an empty store ready for inserts.
func setupStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	dsn, pg := startPostgres(ctx, t)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	require.NoError(t, database.RunMigrations(dsn))

	pool, err := database.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	normalizer := cities.NewNormalizer(cities.DefaultRegistry())
	return store.New(pool, normalizer, observability.NewTestMetrics())
}

// reading builds a reading with sensible defaults for the given city and
// capture time.
func reading(city string, ts time.Time) model.Reading {
	return model.Reading{
		City:         city,
		Timestamp:    ts,
		TemperatureF: 72.5,
		FeelsLike:    71.0,
		Humidity:     55,
		Pressure:     1012,
		WindSpeed:    8.5,
		Visibility:   10000,
		Condition:    "clear sky",
		Latitude:     35.6762,
		Longitude:    139.6503,
	}
}
