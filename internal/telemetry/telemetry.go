package telemetry

import (
	"errors"
	"io"
	"net/http"
	"time"

	configPkg "github.com/pluely/gateway/internal/config"
	"github.com/pluely/gateway/internal/telemetry/prometheus"
	"github.com/pluely/gateway/internal/telemetry/stats"
)

type ProviderType string

const (
	PROVIDER_DATADOG    ProviderType = "statsd"
	PROVIDER_PROMETHEUS ProviderType = "prometheus"
)

type Provider interface {
	Incr(name string, tags []string, rate float64)
	Timing(name string, value time.Duration, tags []string, rate float64)
}

type Client struct {
	Provider Provider
	Handler  http.Handler
}

var Singleton *Client

// Init selects the metrics provider. An empty provider leaves metrics
// disabled.
func Init(cfg *configPkg.Config) error {
	if cfg == nil {
		return errors.New("config is empty")
	}

	if len(cfg.TelemetryProvider) == 0 {
		Singleton = nil
		return nil
	}

	if cfg.TelemetryProvider == string(PROVIDER_DATADOG) {
		c, err := stats.InitializeClient(stats.Config{
			Enabled: cfg.StatsEnabled,
			Address: cfg.StatsAddress,
			Service: serviceName,
			Version: cfg.AppVersion,
		})

		if err != nil {
			return err
		}

		Singleton = &Client{
			Provider: c,
		}

		return nil
	}

	if cfg.TelemetryProvider == string(PROVIDER_PROMETHEUS) {
		p := prometheus.Init(prometheus.Config{
			Enabled: cfg.PrometheusEnabled,
		})

		Singleton = &Client{
			Provider: p,
			Handler:  p.Handler(),
		}

		return nil
	}

	return errors.New("unsupported telemetry provider")
}

func Incr(name string, tags []string, rate float64) {
	if Singleton != nil {
		Singleton.Provider.Incr(name, tags, rate)
	}
}

func Timing(name string, value time.Duration, tags []string, rate float64) {
	if Singleton != nil {
		Singleton.Provider.Timing(name, value, tags, rate)
	}
}

// Close flushes the active provider when it buffers metrics.
func Close() error {
	if Singleton == nil {
		return nil
	}

	if c, ok := Singleton.Provider.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// MetricsHandler returns the scrape handler of the active provider, if it
// has one.
func MetricsHandler() http.Handler {
	if Singleton == nil {
		return nil
	}

	return Singleton.Handler
}
