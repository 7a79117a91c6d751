package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	"github.com/pluely/gateway/internal/event"
	"github.com/pluely/gateway/internal/telemetry"
	"go.uber.org/zap"
)

const (
	activityPath = "/api/activity"
	errorPath    = "/api/error"
)

type backendClient interface {
	Do(ctx context.Context, method, path string, header map[string]string, body any) (*backend.Response, error)
	Configured() bool
	AppVersion() string
}

type Handler struct {
	client   backendClient
	store    credential.Store
	identity device.Identity
	timeout  time.Duration
	log      *zap.Logger
}

func NewHandler(client backendClient, store credential.Store, identity device.Identity, timeout time.Duration, log *zap.Logger) *Handler {
	return &Handler{
		client:   client,
		store:    store,
		identity: identity,
		timeout:  timeout,
		log:      log,
	}
}

type activityPayload struct {
	License    string          `json:"license"`
	Instance   string          `json:"instance"`
	MachineId  string          `json:"machine_id"`
	AppVersion string          `json:"app_version"`
	AiModel    string          `json:"ai_model"`
	Usage      json.RawMessage `json:"usage,omitempty"`
}

type errorPayload struct {
	MachineId    string `json:"machine_id"`
	ErrorMessage string `json:"error_message"`
	AppVersion   string `json:"app_version"`
	Instance     string `json:"instance"`
	LicenseKey   string `json:"license_key"`
	Endpoint     string `json:"endpoint"`
	Model        string `json:"model"`
	Provider     string `json:"provider"`
}

// identify returns the credentials and device id beacons are attributed to.
// ok is false when any of them is unavailable.
func (h *Handler) identify() (*credential.Credentials, string, bool) {
	if !h.client.Configured() {
		return nil, "", false
	}

	creds, err := h.store.GetCredentials()
	if err != nil || creds == nil {
		return nil, "", false
	}

	machineId, err := h.identity.DeviceId()
	if err != nil || len(machineId) == 0 {
		return nil, "", false
	}

	return creds, machineId, true
}

// HandleBeacon delivers one telemetry beacon. Beacons without an identity are
// skipped silently; delivery failures are logged and dropped.
func (h *Handler) HandleBeacon(m Message) error {
	telemetry.Incr("pluely.message.handler.handle_beacon.requests", []string{"type:" + m.Type}, 1)

	creds, machineId, ok := h.identify()
	if !ok {
		telemetry.Incr("pluely.message.handler.handle_beacon.identity_missing", nil, 1)
		return nil
	}

	var (
		path          string
		body          any
		correlationId string
	)

	switch data := m.Data.(type) {
	case *event.Activity:
		path = activityPath
		correlationId = data.CorrelationId

		model := data.Model
		if creds.SelectedModel != nil && len(creds.SelectedModel.Model) != 0 {
			model = creds.SelectedModel.Model
		}

		body = &activityPayload{
			License:    creds.LicenseKey,
			Instance:   creds.InstanceId,
			MachineId:  machineId,
			AppVersion: h.client.AppVersion(),
			AiModel:    model,
			Usage:      data.Usage,
		}

	case *event.Error:
		path = errorPath
		correlationId = data.CorrelationId

		provider, model := creds.Hints()
		if len(data.Provider) != 0 {
			provider = data.Provider
		}

		if len(data.Model) != 0 {
			model = data.Model
		}

		body = &errorPayload{
			MachineId:    machineId,
			ErrorMessage: data.Message,
			AppVersion:   h.client.AppVersion(),
			Instance:     creds.InstanceId,
			LicenseKey:   creds.LicenseKey,
			Endpoint:     data.Endpoint,
			Model:        model,
			Provider:     provider,
		}

	default:
		telemetry.Incr("pluely.message.handler.handle_beacon.event_parsing_error", nil, 1)
		h.log.Info("message contains data that cannot be converted to beacon format", zap.String("type", m.Type))
		return errors.New("message data cannot be parsed as beacon")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	start := time.Now()
	res, err := h.client.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		telemetry.Incr("pluely.message.handler.handle_beacon.send_error", nil, 1)
		h.log.Debug("error when sending beacon", zap.String("path", path), zap.String("correlationId", correlationId), zap.String("error", backend.StripUrl(err)))
		return err
	}

	if !res.Ok() {
		telemetry.Incr("pluely.message.handler.handle_beacon.status_error", nil, 1)
		h.log.Debug("beacon rejected", zap.String("path", path), zap.String("correlationId", correlationId), zap.Int("status", res.StatusCode))
		return fmt.Errorf("beacon rejected with status %d", res.StatusCode)
	}

	telemetry.Timing("pluely.message.handler.handle_beacon.latency", time.Since(start), nil, 1)
	telemetry.Incr("pluely.message.handler.handle_beacon.success", nil, 1)

	return nil
}
