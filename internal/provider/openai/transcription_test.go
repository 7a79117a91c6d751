package openai

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/pluely/gateway/internal/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriptionForm(t *testing.T) {
	headers := []*route.Header{
		{Key: " language ", Value: "en"},
		{Key: "", Value: "skipped"},
		nil,
		{Key: "response_format", Value: "json"},
	}

	body, contentType, err := NewTranscriptionForm([]byte("RIFF"), "whisper-1", headers)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	fields := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		bs, err := io.ReadAll(part)
		require.NoError(t, err)

		if part.FormName() == "file" {
			assert.Equal(t, "audio.wav", part.FileName())
			assert.Equal(t, "audio/wav", part.Header.Get("Content-Type"))
		}

		fields[part.FormName()] = string(bs)
	}

	assert.Equal(t, map[string]string{
		"file":            "RIFF",
		"model":           "whisper-1",
		"language":        "en",
		"response_format": "json",
	}, fields)
}

func TestParseTranscription(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "text field", body: `{"text":"hello","transcription":"no"}`, expected: "hello"},
		{name: "transcription field", body: `{"transcription":"hello"}`, expected: "hello"},
		{name: "result field", body: `{"result":"hello"}`, expected: "hello"},
		{name: "non string text", body: `{"text": 5, "result":"hello"}`, expected: "hello"},
		{name: "other json", body: `{ "segments": [ 1, 2 ] }`, expected: `{"segments":[1,2]}`},
		{name: "plain text", body: "hello there\n", expected: "hello there"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := ParseTranscription([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, text)
		})
	}

	t.Run("empty body", func(t *testing.T) {
		_, err := ParseTranscription([]byte("  \n"))
		assert.ErrorIs(t, err, ErrEmptyTranscription)
	})
}

func TestTranscriptionStatusError(t *testing.T) {
	err := TranscriptionStatusError("500 Internal Server Error", []byte("boom\n"))
	assert.EqualError(t, err, "Transcription request returned 500 Internal Server Error with body: boom")
}
