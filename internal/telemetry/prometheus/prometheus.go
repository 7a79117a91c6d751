package prometheus

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Enabled bool
}

// Client registers metrics on first use. Statsd style tags are dropped since
// every metric is registered without labels.
type Client struct {
	Config           Config
	registry         *prometheus.Registry
	mu               sync.Mutex
	CounterMetrics   map[string]prometheus.Counter
	HistogramMetrics map[string]prometheus.Histogram
}

func Init(cfg Config) *Client {
	return &Client{
		Config:           cfg,
		registry:         prometheus.NewRegistry(),
		CounterMetrics:   make(map[string]prometheus.Counter),
		HistogramMetrics: make(map[string]prometheus.Histogram),
	}
}

func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

func (c *Client) counter(name string) prometheus.Counter {
	c.mu.Lock()
	defer c.mu.Unlock()

	converted := metricName(name)
	counterMetric, exists := c.CounterMetrics[converted]
	if exists {
		return counterMetric
	}

	counterMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Name: converted,
	})
	c.registry.MustRegister(counterMetric)
	c.CounterMetrics[converted] = counterMetric

	return counterMetric
}

func (c *Client) histogram(name string) prometheus.Histogram {
	c.mu.Lock()
	defer c.mu.Unlock()

	converted := metricName(name) + "_seconds"
	histogramMetric, exists := c.HistogramMetrics[converted]
	if exists {
		return histogramMetric
	}

	histogramMetric = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    converted,
		Buckets: prometheus.DefBuckets,
	})
	c.registry.MustRegister(histogramMetric)
	c.HistogramMetrics[converted] = histogramMetric

	return histogramMetric
}

func (c *Client) Incr(name string, tags []string, rate float64) {
	if c == nil || !c.Config.Enabled {
		return
	}

	c.counter(name).Inc()
}

func (c *Client) Timing(name string, value time.Duration, tags []string, rate float64) {
	if c == nil || !c.Config.Enabled {
		return
	}

	c.histogram(name).Observe(value.Seconds())
}
