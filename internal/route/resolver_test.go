package route

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const configResponse = `{
	"url": "https://provider.test/v1/chat/completions",
	"user_token": "provider-token",
	"model": "gpt-4o",
	"body": "{\"temperature\":0.3,\"stream\":false}",
	"customer_id": 42,
	"customer_email": "a@b.test",
	"customer_name": "Ada",
	"license_key": "lic",
	"instance_id": "inst",
	"user_audio": {
		"url": "https://stt.test/primary",
		"model": "whisper-1",
		"user_token": "stt-token",
		"fallback_url": "https://stt.test/fallback",
		"fallback_user_token": "stt-fallback",
		"headers": [{"key": "language", "value": "en"}]
	},
	"errors": [{"includes": "429", "error": "Too many requests"}, {"includes": "", "error": "Generic"}]
}`

func newTestResolver(t *testing.T, handler http.HandlerFunc, store credential.Store) (*Resolver, *int) {
	t.Helper()

	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	c := backend.NewClient(ts.URL, "access", "1.0.0", ts.Client())
	return NewResolver(c, store, device.NewStaticIdentity("machine"), zap.NewNop()), &calls
}

func testStore() credential.Store {
	return credential.NewStaticStore(&credential.Credentials{LicenseKey: "lic", InstanceId: "inst"})
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("sends identity headers and decodes config", func(t *testing.T) {
		r, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/response", r.URL.Path)
			assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
			assert.Equal(t, "lic", r.Header.Get("license_key"))
			assert.Equal(t, "inst", r.Header.Get("instance"))
			assert.Equal(t, "machine", r.Header.Get("machine_id"))
			assert.Equal(t, "openai", r.Header.Get("provider"))
			assert.Equal(t, "gpt-4o", r.Header.Get("model"))

			w.Write([]byte(configResponse))
		}, testStore())

		cfg, err := r.Resolve(context.Background(), "openai", "gpt-4o")
		require.NoError(t, err)

		assert.Equal(t, "https://provider.test/v1/chat/completions", cfg.Url)
		assert.Equal(t, "provider-token", cfg.UserToken)
		assert.Equal(t, []string{"temperature", "stream"}, cfg.ExtraBody.Keys())
		require.NotNil(t, cfg.CustomerId)
		assert.Equal(t, int64(42), *cfg.CustomerId)
		require.NotNil(t, cfg.Audio)
		assert.Len(t, cfg.Audio.Tiers(), 2)
		assert.Equal(t, "language", cfg.Audio.Headers[0].Key)
		require.Len(t, cfg.ErrorRules, 2)
		assert.Equal(t, "Too many requests", cfg.ErrorRules[0].Error)
	})

	t.Run("omits empty hints", func(t *testing.T) {
		r, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
			_, hasProvider := r.Header["Provider"]
			_, hasModel := r.Header["Model"]
			assert.False(t, hasProvider)
			assert.False(t, hasModel)

			w.Write([]byte(`{"url":"u","user_token":"t","model":"m"}`))
		}, testStore())

		cfg, err := r.Resolve(context.Background(), "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg.Audio)
		assert.Empty(t, cfg.ExtraBody)
	})

	t.Run("fails without credentials and makes no request", func(t *testing.T) {
		r, calls := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {}, credential.NewStaticStore(nil))

		_, err := r.Resolve(context.Background(), "", "")
		var nae *internal_errors.NotAuthenticatedError
		assert.True(t, errors.As(err, &nae))
		assert.Equal(t, 0, *calls)
	})

	t.Run("maps non 2xx to config fetch error", func(t *testing.T) {
		r, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"License expired"}`))
		}, testStore())

		_, err := r.Resolve(context.Background(), "", "")
		var cfe *internal_errors.ConfigFetchError
		require.True(t, errors.As(err, &cfe))
		assert.Equal(t, http.StatusForbidden, cfe.StatusCode())
		assert.Equal(t, "Server error (403): License expired", cfe.Error())
	})

	t.Run("maps transport failure without the url", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := ts.URL
		ts.Close()

		c := backend.NewClient(endpoint, "access", "1.0.0", nil)
		r := NewResolver(c, testStore(), device.NewStaticIdentity("machine"), zap.NewNop())

		_, err := r.Resolve(context.Background(), "", "")
		var cfe *internal_errors.ConfigFetchError
		require.True(t, errors.As(err, &cfe))
		assert.Equal(t, 0, cfe.StatusCode())
		assert.Contains(t, cfe.Error(), "Failed to fetch API config: ")
		assert.NotContains(t, cfe.Error(), endpoint)
	})

	t.Run("maps undecodable body to decode error", func(t *testing.T) {
		r, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}, testStore())

		_, err := r.Resolve(context.Background(), "", "")
		var de *internal_errors.DecodeError
		assert.True(t, errors.As(err, &de))
	})
}
