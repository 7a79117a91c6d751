package config

import (
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	AppEndpoint              string        `env:"APP_ENDPOINT"`
	ApiAccessKey             string        `env:"API_ACCESS_KEY"`
	AppVersion               string        `env:"APP_VERSION" envDefault:"0.1.0"`
	ProxyPort                int           `env:"PROXY_PORT" envDefault:"8003"`
	ConfigFetchTimeout       time.Duration `env:"CONFIG_FETCH_TIMEOUT" envDefault:"30s"`
	ChatStreamTimeout        time.Duration `env:"CHAT_STREAM_TIMEOUT" envDefault:"5m"`
	TranscriptionTimeout     time.Duration `env:"TRANSCRIPTION_TIMEOUT" envDefault:"120s"`
	BeaconTimeout            time.Duration `env:"BEACON_TIMEOUT" envDefault:"10s"`
	NumberOfBeaconConsumers  int           `env:"BEACON_CONSUMERS" envDefault:"2"`
	BeaconQueueSize          int           `env:"BEACON_QUEUE_SIZE" envDefault:"64"`
	TranscriptionTierRetries int           `env:"TRANSCRIPTION_TIER_RETRIES" envDefault:"0"`
	ProtectReservedBodyKeys  bool          `env:"PROTECT_RESERVED_BODY_KEYS" envDefault:"false"`
	CredentialBackend        string        `env:"CREDENTIAL_BACKEND" envDefault:"file"`
	CredentialPath           string        `env:"CREDENTIAL_PATH" envDefault:"secure_storage.json"`
	DeviceId                 string        `env:"DEVICE_ID"`
	TelemetryProvider        string        `env:"TELEMETRY_PROVIDER"`
	StatsEnabled             bool          `env:"STATS_ENABLED" envDefault:"false"`
	StatsAddress             string        `env:"STATS_ADDRESS" envDefault:"127.0.0.1:8125"`
	PrometheusEnabled        bool          `env:"PROMETHEUS_ENABLED" envDefault:"false"`
	OpenTelemetryEnabled     bool          `env:"OTEL_ENABLED" envDefault:"false"`
	OpenTelemetryEndpoint    string        `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
}

func ParseEnvVariables() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
