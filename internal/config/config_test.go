package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvVariables(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseEnvVariables()
		require.NoError(t, err)

		assert.Equal(t, 8003, cfg.ProxyPort)
		assert.Equal(t, 30*time.Second, cfg.ConfigFetchTimeout)
		assert.Equal(t, 0, cfg.TranscriptionTierRetries)
		assert.Equal(t, "file", cfg.CredentialBackend)
		assert.False(t, cfg.ProtectReservedBodyKeys)
	})

	t.Run("reads the backend endpoint and access key", func(t *testing.T) {
		t.Setenv("APP_ENDPOINT", "https://backend.test")
		t.Setenv("API_ACCESS_KEY", "access")
		t.Setenv("BEACON_CONSUMERS", "5")
		t.Setenv("CHAT_STREAM_TIMEOUT", "90s")

		cfg, err := ParseEnvVariables()
		require.NoError(t, err)

		assert.Equal(t, "https://backend.test", cfg.AppEndpoint)
		assert.Equal(t, "access", cfg.ApiAccessKey)
		assert.Equal(t, 5, cfg.NumberOfBeaconConsumers)
		assert.Equal(t, 90*time.Second, cfg.ChatStreamTimeout)
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		t.Setenv("BEACON_TIMEOUT", "soon")

		_, err := ParseEnvVariables()
		assert.Error(t, err)
	})
}
