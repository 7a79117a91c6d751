package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	"github.com/pluely/gateway/internal/event"
	"github.com/pluely/gateway/internal/gateway"
	"github.com/pluely/gateway/internal/message"
	"github.com/pluely/gateway/internal/route"
	"github.com/pluely/gateway/internal/server/web/bridge"
	"go.uber.org/zap"
)

type beacon struct {
	Path string
	Body map[string]any
}

// fakeBackend serves routing configuration and records beacons.
type fakeBackend struct {
	*httptest.Server
	mu      sync.Mutex
	config  string
	beacons []beacon
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case "/api/response":
			fb.mu.Lock()
			config := fb.config
			fb.mu.Unlock()

			w.Write([]byte(config))

		case "/api/activity", "/api/error":
			if r.Method != http.MethodPost {
				w.Write([]byte(`{"data":[]}`))
				return
			}

			bs, _ := io.ReadAll(r.Body)
			body := map[string]any{}
			json.Unmarshal(bs, &body)

			fb.mu.Lock()
			fb.beacons = append(fb.beacons, beacon{Path: r.URL.Path, Body: body})
			fb.mu.Unlock()

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fb.Close)

	return fb
}

func (fb *fakeBackend) setConfig(config string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.config = config
}

func (fb *fakeBackend) Beacons() []beacon {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	return append([]beacon{}, fb.beacons...)
}

// newStack wires the bridge, gateway and beacon pipeline the way the serve
// command does.
func newStack(t *testing.T, fb *fakeBackend) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	client := backend.NewClient(fb.URL, "access", "9.9.9", fb.Client())
	store := credential.NewStaticStore(&credential.Credentials{
		LicenseKey: "lic",
		InstanceId: "inst",
		SelectedModel: &credential.Model{
			Provider: "openai",
			Model:    "gpt-4o",
		},
	})
	identity := device.NewStaticIdentity("machine")

	mb := message.NewMessageBus()
	beacons := make(chan message.Message, 16)
	mb.Subscribe(event.TypeActivity, beacons)
	mb.Subscribe(event.TypeError, beacons)

	handler := message.NewHandler(client, store, identity, time.Second, log)
	consumer := message.NewConsumer(beacons, log, 2, handler.HandleBeacon)
	consumer.StartBeaconMessageConsumers()
	t.Cleanup(consumer.Stop)

	resolver := route.NewResolver(client, store, identity, log)
	gw := gateway.New(resolver, client, store, identity, mb, http.DefaultClient, gateway.Options{}, log)

	bs := bridge.NewBridgeServer(log, bridge.Config{
		Mode:                 "production",
		ChatStreamTimeout:    10 * time.Second,
		TranscriptionTimeout: 10 * time.Second,
		RequestTimeout:       10 * time.Second,
	}, gw)

	ts := httptest.NewServer(bs.Handler())
	t.Cleanup(ts.Close)

	return ts
}
