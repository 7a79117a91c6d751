package stats

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
)

type Config struct {
	Enabled bool
	Address string
	Service string
	Version string
}

// Client sends metrics to a dogstatsd agent. A disabled client opens no
// socket and drops every metric.
type Client struct {
	statsdc *statsd.Client
}

func InitializeClient(cfg Config) (*Client, error) {
	if !cfg.Enabled {
		return &Client{}, nil
	}

	tags := []string{}
	if len(cfg.Service) != 0 {
		tags = append(tags, "service:"+cfg.Service)
	}

	if len(cfg.Version) != 0 {
		tags = append(tags, "version:"+cfg.Version)
	}

	sc, err := statsd.New(cfg.Address,
		statsd.WithTags(tags),
		statsd.WithoutTelemetry(),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		statsdc: sc,
	}, nil
}

func (c *Client) Incr(name string, tags []string, rate float64) {
	if c != nil && c.statsdc != nil {
		c.statsdc.Incr(name, tags, rate)
	}
}

func (c *Client) Timing(name string, value time.Duration, tags []string, rate float64) {
	if c != nil && c.statsdc != nil {
		c.statsdc.Timing(name, value, tags, rate)
	}
}

// Close flushes buffered metrics.
func (c *Client) Close() error {
	if c == nil || c.statsdc == nil {
		return nil
	}

	return c.statsdc.Close()
}
