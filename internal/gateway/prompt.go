package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/pluely/gateway/internal/telemetry"
)

type SystemPromptResponse struct {
	PromptName   string `json:"prompt_name"`
	SystemPrompt string `json:"system_prompt"`
}

type systemPromptRequest struct {
	UserPrompt string `json:"user_prompt"`
}

// CreateSystemPrompt asks the backend to generate a system prompt from a
// short user description.
func (g *Gateway) CreateSystemPrompt(ctx context.Context, userPrompt string) (*SystemPromptResponse, error) {
	telemetry.Incr("pluely.gateway.create_system_prompt.requests", nil, 1)

	creds, machineId, err := g.identityHeader()
	if err != nil {
		return nil, err
	}

	header := map[string]string{
		"license_key": creds.LicenseKey,
		"instance":    creds.InstanceId,
		"machine_id":  machineId,
		"app_version": g.client.AppVersion(),
	}

	res, err := g.client.Do(ctx, http.MethodPost, "/api/prompt", header, &systemPromptRequest{UserPrompt: userPrompt})
	if err != nil {
		return nil, requestFailed("prompt", err)
	}

	if !res.Ok() {
		return nil, serverError(res, false)
	}

	spr := &SystemPromptResponse{}
	err = json.Unmarshal(res.Body, spr)
	if err != nil {
		return nil, internal_errors.NewDecodeError("Failed to parse prompt response: " + err.Error())
	}

	return spr, nil
}
