package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("exposes counters and histograms", func(t *testing.T) {
		c := Init(Config{Enabled: true})
		c.Incr("pluely.gateway.chat_stream.requests", nil, 1)
		c.Incr("pluely.gateway.chat_stream.requests", nil, 1)
		c.Timing("pluely.gateway.chat_stream.latency", 250*time.Millisecond, nil, 1)

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		bs, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(bs), "pluely_gateway_chat_stream_requests 2")
		assert.Contains(t, string(bs), "pluely_gateway_chat_stream_latency_seconds_count 1")
	})

	t.Run("disabled client records nothing", func(t *testing.T) {
		c := Init(Config{})
		c.Incr("pluely.gateway.chat_stream.requests", nil, 1)
		assert.Empty(t, c.CounterMetrics)
	})
}
