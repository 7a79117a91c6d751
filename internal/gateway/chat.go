package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pluely/gateway/internal/classifier"
	internal_errors "github.com/pluely/gateway/internal/errors"
	"github.com/pluely/gateway/internal/event"
	"github.com/pluely/gateway/internal/provider/openai"
	"github.com/pluely/gateway/internal/telemetry"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const chatEndpoint = "/api/chat"

// Emitter receives the incremental output of a chat stream.
type Emitter interface {
	EmitChunk(chunk string)
	EmitComplete(text string)
}

type ChatRequest struct {
	UserMessage  string
	SystemPrompt string
	History      string
	Images       []string
}

// ChatStream runs one streaming completion. Every content delta is emitted
// as it arrives and the full text is emitted and returned at the end of the
// stream. Provider failures come back as a TransportError holding the
// classified message.
func (g *Gateway) ChatStream(ctx context.Context, req *ChatRequest, emitter Emitter) (string, error) {
	telemetry.Incr("pluely.gateway.chat_stream.requests", nil, 1)

	ctx, span := telemetry.StartSpan(ctx, "gateway.ChatStream")
	defer span.End()

	cfg, sel, err := g.resolve(ctx)
	if err != nil {
		telemetry.Incr("pluely.gateway.chat_stream.resolve_error", nil, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return "", err
	}

	span.SetAttributes(attribute.String("model", cfg.Model))

	body, err := openai.BuildChatCompletionBody(cfg.Model, &openai.ChatInput{
		UserMessage:  req.UserMessage,
		SystemPrompt: req.SystemPrompt,
		History:      req.History,
		Images:       req.Images,
	}, cfg.ExtraBody, g.opts.ProtectReservedBodyKeys, g.log)
	if err != nil {
		return "", internal_errors.NewDecodeError("Failed to build chat request: " + err.Error())
	}

	fail := func(detail string, sources []string) (string, error) {
		telemetry.Incr("pluely.gateway.chat_stream.provider_error", nil, 1)
		g.log.Debug("chat stream failed", zap.String("correlationId", CorrelationId(ctx)), zap.String("detail", detail))

		span.SetStatus(codes.Error, "chat stream failed")
		g.publishError(ctx, chatEndpoint, detail, sel)

		return "", internal_errors.NewTransportError(classifier.Classify(sources, cfg.ErrorRules))
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Url, bytes.NewReader(body))
	if err != nil {
		return fail(err.Error(), sendSources(err, cfg.Url))
	}

	hreq.Header.Set("Authorization", "Bearer "+cfg.UserToken)
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	res, err := g.httpClient.Do(hreq)
	if err != nil {
		return fail(err.Error(), sendSources(err, cfg.Url))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		bs, _ := io.ReadAll(res.Body)
		return fail(res.Status+": "+string(bs), statusSources(res.Status, bs))
	}

	decoder := openai.NewStreamDecoder()
	buf := make([]byte, 4096)
	for {
		n, rerr := res.Body.Read(buf)
		if n > 0 {
			for _, delta := range decoder.Feed(buf[:n]) {
				emitter.EmitChunk(delta)
			}

			if decoder.ClaimActivity() {
				telemetry.Timing("pluely.gateway.chat_stream.first_content_latency", time.Since(start), nil, 1)
				g.publishActivity(ctx, &event.Activity{
					Model: cfg.Model,
					Usage: decoder.FirstContentUsage(),
				})
			}
		}

		if rerr == nil {
			continue
		}

		if errors.Is(rerr, io.EOF) {
			break
		}

		return fail(rerr.Error(), []string{rerr.Error()})
	}

	recordUsage(span, decoder.Usage())

	content := decoder.Content()
	emitter.EmitComplete(content)

	telemetry.Timing("pluely.gateway.chat_stream.latency", time.Since(start), nil, 1)
	telemetry.Incr("pluely.gateway.chat_stream.success", nil, 1)

	return content, nil
}

// sendSources lists the strings a request that never got a response is
// classified by: the error and the provider url when it parses.
func sendSources(err error, rawUrl string) []string {
	sources := []string{err.Error()}
	if u, perr := url.Parse(rawUrl); perr == nil {
		sources = append(sources, u.String())
	}

	return sources
}

// statusSources lists the strings a failed provider response is classified
// by: the body, the status line and any error fields in a JSON body.
func statusSources(status string, body []byte) []string {
	sources := []string{string(body), status}
	if !gjson.ValidBytes(body) {
		return sources
	}

	for _, path := range []string{"error", "message", "error.message"} {
		result := gjson.GetBytes(body, path)
		if result.Type == gjson.String {
			sources = append(sources, result.String())
		}
	}

	return sources
}

type spanAttributeSetter interface {
	SetAttributes(kv ...attribute.KeyValue)
}

func recordUsage(span spanAttributeSetter, raw json.RawMessage) {
	if raw == nil {
		return
	}

	usage := goopenai.Usage{}
	if err := json.Unmarshal(raw, &usage); err != nil {
		return
	}

	span.SetAttributes(
		attribute.Int("usage.prompt_tokens", usage.PromptTokens),
		attribute.Int("usage.completion_tokens", usage.CompletionTokens),
		attribute.Int("usage.total_tokens", usage.TotalTokens),
	)
}
