package bridge

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pluely/gateway/internal/gateway"
	"github.com/pluely/gateway/internal/telemetry"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	eventChatStreamChunk    = "chat_stream_chunk"
	eventChatStreamComplete = "chat_stream_complete"
	eventChatStreamError    = "chat_stream_error"
)

type ChatRequest struct {
	UserMessage  string          `json:"user_message"`
	SystemPrompt string          `json:"system_prompt"`
	ImageBase64  json.RawMessage `json:"image_base64"`
	History      string          `json:"history"`
}

type ChunkEvent struct {
	Chunk string `json:"chunk"`
}

type CompleteEvent struct {
	Text string `json:"text"`
}

type ErrorEvent struct {
	Error string `json:"error"`
}

// images accepts a single base64 string or a list of them.
func (cr *ChatRequest) images() []string {
	parsed := gjson.ParseBytes(cr.ImageBase64)

	if parsed.Type == gjson.String {
		if len(strings.TrimSpace(parsed.Str)) == 0 {
			return nil
		}

		return []string{parsed.Str}
	}

	images := []string{}
	if parsed.IsArray() {
		for _, ele := range parsed.Array() {
			if ele.Type == gjson.String && len(strings.TrimSpace(ele.Str)) != 0 {
				images = append(images, ele.Str)
			}
		}
	}

	return images
}

// sseEmitter writes gateway output as server sent events. Events are
// written from the handler goroutine only.
type sseEmitter struct {
	c       *gin.Context
	started bool
}

func (se *sseEmitter) emit(name string, data any) {
	if !se.started {
		se.c.Header("Cache-Control", "no-cache")
		se.c.Header("Connection", "keep-alive")
		se.started = true
	}

	se.c.SSEvent(name, data)
	se.c.Writer.Flush()
}

func (se *sseEmitter) EmitChunk(chunk string) {
	se.emit(eventChatStreamChunk, &ChunkEvent{Chunk: chunk})
}

func (se *sseEmitter) EmitComplete(text string) {
	se.emit(eventChatStreamComplete, &CompleteEvent{Text: text})
}

func getChatStreamHandler(prod bool, gw Gateway, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		telemetry.Incr("pluely.bridge.get_chat_stream_handler.requests", nil, 1)
		cid := c.GetString(correlationId)

		cr := &ChatRequest{}
		err := c.ShouldBindJSON(cr)
		if err != nil {
			telemetry.Incr("pluely.bridge.get_chat_stream_handler.bind_error", nil, 1)
			logError(log, "error when binding chat request", prod, cid, err)
			JSON(c, http.StatusBadRequest, "[PLUELY] invalid chat request")
			return
		}

		emitter := &sseEmitter{c: c}
		_, err = gw.ChatStream(c.Request.Context(), &gateway.ChatRequest{
			UserMessage:  cr.UserMessage,
			SystemPrompt: cr.SystemPrompt,
			History:      cr.History,
			Images:       cr.images(),
		}, emitter)

		if err == nil {
			return
		}

		telemetry.Incr("pluely.bridge.get_chat_stream_handler.chat_stream_error", nil, 1)
		logError(log, "error when streaming chat", prod, cid, err)

		if !emitter.started {
			JSON(c, errorStatus(err), err.Error())
			return
		}

		emitter.emit(eventChatStreamError, &ErrorEvent{Error: err.Error()})
	}
}
