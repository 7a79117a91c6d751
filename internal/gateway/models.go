package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pluely/gateway/internal/credential"
	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/pluely/gateway/internal/telemetry"
)

type modelsResponse struct {
	Models []*credential.Model `json:"models"`
}

// FetchModels lists the models the backend can route to.
func (g *Gateway) FetchModels(ctx context.Context) ([]*credential.Model, error) {
	telemetry.Incr("pluely.gateway.fetch_models.requests", nil, 1)

	res, err := g.client.Do(ctx, http.MethodPost, "/api/models", nil, nil)
	if err != nil {
		return nil, requestFailed("models", err)
	}

	if !res.Ok() {
		return nil, serverError(res, false)
	}

	mr := &modelsResponse{}
	err = json.Unmarshal(res.Body, mr)
	if err != nil {
		return nil, internal_errors.NewDecodeError("Failed to parse models response: " + err.Error())
	}

	if mr.Models == nil {
		mr.Models = []*credential.Model{}
	}

	return mr.Models, nil
}
