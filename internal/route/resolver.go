package route

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pluely/gateway/internal/client/backend"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/device"
	internal_errors "github.com/pluely/gateway/internal/errors"
	"go.uber.org/zap"
)

const configPath = "/api/response"

type backendClient interface {
	Do(ctx context.Context, method, path string, header map[string]string, body any) (*backend.Response, error)
}

type Resolver struct {
	client   backendClient
	store    credential.Store
	identity device.Identity
	log      *zap.Logger
}

func NewResolver(client backendClient, store credential.Store, identity device.Identity, log *zap.Logger) *Resolver {
	return &Resolver{
		client:   client,
		store:    store,
		identity: identity,
		log:      log,
	}
}

func configFetchFailed(cause string) error {
	return internal_errors.NewConfigFetchError("Failed to fetch API config: "+cause, 0)
}

// Resolve fetches the routing configuration for one operation. Provider and
// model are optional hints forwarded to the backend.
func (r *Resolver) Resolve(ctx context.Context, provider, model string) (*Config, error) {
	creds, err := r.store.GetCredentials()
	if err != nil {
		return nil, err
	}

	machineId, err := r.identity.DeviceId()
	if err != nil {
		return nil, configFetchFailed(err.Error())
	}

	header := map[string]string{
		"license_key": creds.LicenseKey,
		"instance":    creds.InstanceId,
		"machine_id":  machineId,
	}

	if len(provider) != 0 {
		header["provider"] = provider
	}

	if len(model) != 0 {
		header["model"] = model
	}

	res, err := r.client.Do(ctx, http.MethodGet, configPath, header, nil)
	if err != nil {
		r.log.Debug("error when fetching api config", zap.Error(err))
		return nil, configFetchFailed(backend.StripUrl(err))
	}

	if !res.Ok() {
		detail := backend.ErrorDetail(res.Body, false)
		r.log.Debug("api config request failed", zap.Int("status", res.StatusCode), zap.String("detail", detail))
		return nil, internal_errors.NewConfigFetchError(backend.ServerErrorMessage(res.StatusCode, detail), res.StatusCode)
	}

	rc := &responseConfig{}
	err = json.Unmarshal(res.Body, rc)
	if err != nil {
		return nil, internal_errors.NewDecodeError("Failed to parse API response: " + err.Error())
	}

	return rc.toConfig(), nil
}
