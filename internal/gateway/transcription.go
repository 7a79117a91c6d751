package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pluely/gateway/internal/client/backend"
	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/pluely/gateway/internal/provider/openai"
	"github.com/pluely/gateway/internal/route"
	"github.com/pluely/gateway/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	transcribeEndpoint = "/api/transcribe"

	audioNotConfiguredMessage  = "Audio transcription is not configured for this workspace. Please contact support."
	transcriptionFailedMessage = "Transcription failed. Please try again."
	fallbackNotConfigured      = "fallback not configured"
)

type AudioResponse struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Transcribe sends base64 audio to the primary transcription tier and, when
// it fails and a fallback is configured, to the fallback tier.
func (g *Gateway) Transcribe(ctx context.Context, audioBase64 string) (*AudioResponse, error) {
	telemetry.Incr("pluely.gateway.transcribe.requests", nil, 1)

	ctx, span := telemetry.StartSpan(ctx, "gateway.Transcribe")
	defer span.End()

	cfg, sel, err := g.resolve(ctx)
	if err != nil {
		telemetry.Incr("pluely.gateway.transcribe.resolve_error", nil, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return nil, err
	}

	if cfg.Audio == nil {
		telemetry.Incr("pluely.gateway.transcribe.audio_not_configured", nil, 1)
		return nil, internal_errors.NewConfigurationMissingError(audioNotConfiguredMessage)
	}

	audio, err := openai.DecodeAudio(audioBase64)
	if err != nil {
		telemetry.Incr("pluely.gateway.transcribe.decode_error", nil, 1)
		return nil, err
	}

	tiers := cfg.Audio.Tiers()
	transcription := ""

	do := func(ctx context.Context, tier *route.Tier) error {
		text, err := g.transcribeTier(ctx, tier, audio, cfg.Audio.Headers)
		if err != nil {
			telemetry.Incr("pluely.gateway.transcribe.tier_error", []string{"tier:" + tier.Name}, 1)
			return err
		}

		transcription = text
		return nil
	}

	start := time.Now()
	tier, failures := route.RunTiers(ctx, tiers, g.opts.TranscriptionTierRetries, g.opts.TierRetryInterval, do, g.log)
	if tier != nil {
		span.SetAttributes(attribute.String("tier", tier.Name), attribute.String("model", tier.Model))
		telemetry.Timing("pluely.gateway.transcribe.latency", time.Since(start), nil, 1)
		telemetry.Incr("pluely.gateway.transcribe.success", []string{"tier:" + tier.Name}, 1)

		return &AudioResponse{
			Success:       true,
			Transcription: transcription,
		}, nil
	}

	detail := combinedFailure(failures, cfg.Audio.HasFallback())
	g.log.Debug("transcription failed", zap.String("correlationId", CorrelationId(ctx)), zap.String("detail", detail))

	span.SetStatus(codes.Error, "transcription failed")
	g.publishError(ctx, transcribeEndpoint, detail, sel)

	return nil, internal_errors.NewTransportError(transcriptionFailedMessage)
}

func (g *Gateway) transcribeTier(ctx context.Context, tier *route.Tier, audio []byte, headers []*route.Header) (string, error) {
	body, contentType, err := openai.NewTranscriptionForm(audio, tier.Model, headers)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tier.Url, body)
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+tier.UserToken)
	req.Header.Set("Content-Type", contentType)

	res, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	bs, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", openai.TranscriptionStatusError(res.Status, bs)
	}

	return openai.ParseTranscription(bs)
}

// combinedFailure renders the primary and fallback errors as one line.
func combinedFailure(failures []*route.TierError, hasFallback bool) string {
	primary := "not attempted"
	fallback := fallbackNotConfigured
	if hasFallback {
		fallback = "not attempted"
	}

	for _, f := range failures {
		switch f.Tier.Name {
		case route.TierPrimary:
			primary = backend.StripUrl(f.Err)
		case route.TierFallback:
			fallback = backend.StripUrl(f.Err)
		}
	}

	return fmt.Sprintf("Primary: %s | Fallback: %s", primary, fallback)
}
