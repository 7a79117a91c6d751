package telemetry

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pluely/gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Singleton = nil })

	t.Run("empty provider disables metrics", func(t *testing.T) {
		require.NoError(t, Init(&config.Config{}))
		assert.Nil(t, Singleton)
		assert.Nil(t, MetricsHandler())

		Incr("pluely.test.noop", nil, 1)
		Timing("pluely.test.noop", time.Second, nil, 1)
	})

	t.Run("rejects unknown providers", func(t *testing.T) {
		assert.Error(t, Init(&config.Config{TelemetryProvider: "graphite"}))
	})

	t.Run("prometheus exposes a scrape handler", func(t *testing.T) {
		require.NoError(t, Init(&config.Config{
			TelemetryProvider: string(PROVIDER_PROMETHEUS),
			PrometheusEnabled: true,
		}))

		Incr("pluely.test.requests", nil, 1)

		h := MetricsHandler()
		require.NotNil(t, h)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		assert.Contains(t, rec.Body.String(), "pluely_test_requests")
	})

	t.Run("statsd has no scrape handler", func(t *testing.T) {
		require.NoError(t, Init(&config.Config{
			TelemetryProvider: string(PROVIDER_DATADOG),
			StatsAddress:      "127.0.0.1:8125",
		}))

		assert.Nil(t, MetricsHandler())
		assert.NoError(t, Close())
	})
}

func TestSetupOTelSDKDisabled(t *testing.T) {
	shutdown, err := SetupOTelSDK(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
