package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDo(t *testing.T) {
	t.Run("sends access key, headers and json body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/prompt", r.URL.Path)
			assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "lic", r.Header.Get("license_key"))

			bs, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"user_prompt":"be brief"}`, string(bs))

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ok":true}`))
		}))
		defer ts.Close()

		c := NewClient(ts.URL+"/", "access", "1.0.0", ts.Client())
		res, err := c.Do(context.Background(), http.MethodPost, "/api/prompt", map[string]string{"license_key": "lic"}, map[string]string{"user_prompt": "be brief"})
		require.NoError(t, err)

		assert.True(t, res.Ok())
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, `{"ok":true}`, string(res.Body))
	})

	t.Run("refuses to send without endpoint or access key", func(t *testing.T) {
		c := NewClient("", "access", "1.0.0", nil)
		_, err := c.Do(context.Background(), http.MethodGet, "/api/response", nil, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)

		c = NewClient("http://localhost", "", "1.0.0", nil)
		_, err = c.Do(context.Background(), http.MethodGet, "/api/response", nil, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestStripUrl(t *testing.T) {
	t.Run("unwraps url errors", func(t *testing.T) {
		err := &url.Error{Op: "Get", URL: "https://backend.test/api/response?secret=1", Err: errors.New("connection refused")}
		assert.Equal(t, "connection refused", StripUrl(err))
	})

	t.Run("cuts embedded url suffix", func(t *testing.T) {
		err := errors.New("error sending request for url (https://backend.test/api/response)")
		assert.Equal(t, "error sending request", StripUrl(err))
	})

	t.Run("leaves other errors untouched", func(t *testing.T) {
		assert.Equal(t, "boom", StripUrl(errors.New("boom")))
		assert.Equal(t, "", StripUrl(nil))
	})
}

func TestErrorDetail(t *testing.T) {
	cases := []struct {
		name         string
		body         string
		messageFirst bool
		expected     string
	}{
		{name: "error field", body: `{"error":"bad license","message":"other"}`, expected: "bad license"},
		{name: "message first", body: `{"error":"bad license","message":"other"}`, messageFirst: true, expected: "other"},
		{name: "message fallback", body: `{"message":"expired"}`, expected: "expired"},
		{name: "non string error", body: `{"error":{"code":1}}`, expected: `{"error":{"code":1}}`},
		{name: "raw body", body: "gateway timeout\n", expected: "gateway timeout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorDetail([]byte(tc.body), tc.messageFirst))
		})
	}
}
