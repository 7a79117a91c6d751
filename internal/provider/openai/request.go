package openai

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pluely/gateway/internal/route"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const imageDataPrefix = "data:image/jpeg;base64,"

var reservedKeys = map[string]bool{
	"model":    true,
	"messages": true,
	"stream":   true,
}

// ChatInput is one chat turn from the user. History is a JSON array of
// role/content objects produced by the client; Images are base64 jpeg data.
type ChatInput struct {
	UserMessage  string
	SystemPrompt string
	History      string
	Images       []string
}

// BuildMessages renders the message array: the system prompt, the history
// elements verbatim and the user message as text and image parts. A history
// that is not a JSON array is dropped.
func BuildMessages(input *ChatInput) ([]json.RawMessage, error) {
	messages := []json.RawMessage{}

	if len(strings.TrimSpace(input.SystemPrompt)) != 0 {
		bs, err := json.Marshal(goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: input.SystemPrompt,
		})
		if err != nil {
			return nil, err
		}

		messages = append(messages, bs)
	}

	if len(input.History) != 0 && gjson.Valid(input.History) {
		history := gjson.Parse(input.History)
		if history.IsArray() {
			history.ForEach(func(_, value gjson.Result) bool {
				messages = append(messages, json.RawMessage(value.Raw))
				return true
			})
		}
	}

	parts := []goopenai.ChatMessagePart{{
		Type: goopenai.ChatMessagePartTypeText,
		Text: input.UserMessage,
	}}

	for _, image := range input.Images {
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{
				URL: imageDataPrefix + image,
			},
		})
	}

	bs, err := json.Marshal(goopenai.ChatCompletionMessage{
		Role:         goopenai.ChatMessageRoleUser,
		MultiContent: parts,
	})
	if err != nil {
		return nil, err
	}

	return append(messages, bs), nil
}

// orderedBody is a JSON object that keeps insertion order. Setting an
// existing key replaces its value in place.
type orderedBody struct {
	keys   []string
	values map[string]json.RawMessage
}

func newOrderedBody() *orderedBody {
	return &orderedBody{
		values: map[string]json.RawMessage{},
	}
}

func (ob *orderedBody) has(key string) bool {
	_, ok := ob.values[key]
	return ok
}

func (ob *orderedBody) set(key string, value json.RawMessage) {
	if !ob.has(key) {
		ob.keys = append(ob.keys, key)
	}

	ob.values[key] = value
}

func (ob *orderedBody) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, key := range ob.keys {
		if i != 0 {
			buf.WriteByte(',')
		}

		encoded, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.Write(encoded)
		buf.WriteByte(':')
		buf.Write(ob.values[key])
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// BuildChatCompletionBody renders the streaming request body. Extra body
// fields are merged in order and override generated keys unless
// protectReserved is set.
func BuildChatCompletionBody(model string, input *ChatInput, extra route.ExtraBody, protectReserved bool, log *zap.Logger) ([]byte, error) {
	messages, err := BuildMessages(input)
	if err != nil {
		return nil, err
	}

	encodedModel, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}

	encodedMessages, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	body := newOrderedBody()
	body.set("model", encodedModel)
	body.set("messages", encodedMessages)
	body.set("stream", json.RawMessage("true"))

	for _, field := range extra {
		if reservedKeys[field.Key] {
			if protectReserved {
				log.Warn("ignoring reserved key in extra body", zap.String("key", field.Key))
				continue
			}

			log.Warn("extra body overrides reserved key", zap.String("key", field.Key))
		}

		body.set(field.Key, field.Value)
	}

	return body.MarshalJSON()
}
