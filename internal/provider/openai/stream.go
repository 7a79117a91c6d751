package openai

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	headerData = []byte("data: ")
	doneData   = []byte("[DONE]")
)

// StreamDecoder reassembles server sent event frames from arbitrarily split
// chunks. It is not safe for concurrent use.
type StreamDecoder struct {
	partial         []byte
	content         strings.Builder
	usage           json.RawMessage
	contentSeen     bool
	firstUsage      json.RawMessage
	activityClaimed bool
}

func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{}
}

// Feed appends chunk to the pending bytes and decodes every complete line.
// The content deltas found are returned in order. A [DONE] frame stops the
// current batch of lines; the unterminated tail is kept for the next chunk.
func (d *StreamDecoder) Feed(chunk []byte) []string {
	d.partial = append(d.partial, chunk...)

	idx := bytes.LastIndexByte(d.partial, '\n')
	if idx == -1 {
		return nil
	}

	complete := d.partial[:idx]
	rest := make([]byte, len(d.partial)-idx-1)
	copy(rest, d.partial[idx+1:])
	d.partial = rest

	deltas := []string{}
	for _, line := range bytes.Split(complete, []byte{'\n'}) {
		trimmed := bytes.TrimSpace(line)
		if !bytes.HasPrefix(trimmed, headerData) {
			continue
		}

		payload := bytes.TrimPrefix(trimmed, headerData)
		if bytes.Equal(payload, doneData) {
			break
		}

		if !gjson.ValidBytes(payload) {
			continue
		}

		usage := gjson.GetBytes(payload, "usage")
		if d.usage == nil && usage.Exists() && usage.Type != gjson.Null {
			d.usage = json.RawMessage(usage.Raw)
		}

		delta := gjson.GetBytes(payload, "choices.0.delta.content")
		if delta.Type == gjson.String {
			d.content.WriteString(delta.Str)
			if !d.contentSeen {
				d.contentSeen = true
				d.firstUsage = d.usage
			}
			deltas = append(deltas, delta.Str)
		}
	}

	return deltas
}

// Content is the text accumulated so far.
func (d *StreamDecoder) Content() string {
	return d.content.String()
}

// Usage is the first non null usage object seen, or nil.
func (d *StreamDecoder) Usage() json.RawMessage {
	return d.usage
}

// FirstContentUsage is the usage seen up to and including the line that
// carried the first content delta. Later usage frames do not change it.
func (d *StreamDecoder) FirstContentUsage() json.RawMessage {
	return d.firstUsage
}

// ClaimActivity reports true exactly once, after the first content delta.
func (d *StreamDecoder) ClaimActivity() bool {
	if !d.contentSeen || d.activityClaimed {
		return false
	}

	d.activityClaimed = true
	return true
}
