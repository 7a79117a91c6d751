package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/pluely/gateway/internal/route"
	"github.com/tidwall/gjson"
)

const (
	audioFileName    = "audio.wav"
	audioContentType = "audio/wav"
)

var ErrEmptyTranscription = errors.New("empty transcription response")

// NewTranscriptionForm writes the multipart body of a transcription request:
// the audio file, the model and every configured header as a text field.
func NewTranscriptionForm(audio []byte, model string, headers []*route.Header) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	writer := multipart.NewWriter(&b)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, audioFileName))
	h.Set("Content-Type", audioContentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", err
	}

	_, err = part.Write(audio)
	if err != nil {
		return nil, "", err
	}

	err = writer.WriteField("model", model)
	if err != nil {
		return nil, "", err
	}

	for _, header := range headers {
		if header == nil {
			continue
		}

		key := strings.TrimSpace(header.Key)
		if len(key) == 0 {
			continue
		}

		err = writer.WriteField(key, header.Value)
		if err != nil {
			return nil, "", err
		}
	}

	err = writer.Close()
	if err != nil {
		return nil, "", err
	}

	return &b, writer.FormDataContentType(), nil
}

// ParseTranscription extracts the text of a transcription response. JSON
// bodies are searched for text, transcription and result string fields in
// that order; other JSON is returned compacted and anything else verbatim.
func ParseTranscription(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ErrEmptyTranscription
	}

	if !gjson.ValidBytes(trimmed) {
		return string(trimmed), nil
	}

	for _, field := range []string{"text", "transcription", "result"} {
		result := gjson.GetBytes(trimmed, field)
		if result.Type == gjson.String {
			return result.String(), nil
		}
	}

	var compacted bytes.Buffer
	err := json.Compact(&compacted, trimmed)
	if err != nil {
		return string(trimmed), nil
	}

	return compacted.String(), nil
}

func TranscriptionStatusError(status string, body []byte) error {
	return fmt.Errorf("Transcription request returned %s with body: %s", status, strings.TrimSpace(string(body)))
}
