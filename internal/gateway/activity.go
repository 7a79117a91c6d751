package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/pluely/gateway/internal/telemetry"
	"github.com/tidwall/gjson"
)

// GetActivity returns the usage history the backend keeps for this license
// and device.
func (g *Gateway) GetActivity(ctx context.Context) (json.RawMessage, error) {
	telemetry.Incr("pluely.gateway.get_activity.requests", nil, 1)

	creds, machineId, err := g.identityHeader()
	if err != nil {
		return nil, err
	}

	header := map[string]string{
		"license_key":   creds.LicenseKey,
		"instance_name": creds.InstanceId,
		"machine_id":    machineId,
		"app_version":   g.client.AppVersion(),
	}

	res, err := g.client.Do(ctx, http.MethodGet, "/api/activity", header, nil)
	if err != nil {
		return nil, requestFailed("activity", err)
	}

	if !res.Ok() {
		return nil, serverError(res, true)
	}

	if !gjson.ValidBytes(res.Body) {
		return nil, internal_errors.NewDecodeError("Failed to parse activity response")
	}

	return json.RawMessage(res.Body), nil
}
