package openai

import (
	"encoding/base64"
	"strings"

	internal_errors "github.com/pluely/gateway/internal/errors"
)

// StripDataUri drops a data uri prefix such as "data:audio/wav;base64," and
// surrounding whitespace.
func StripDataUri(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, ","); idx != -1 {
		return strings.TrimSpace(s[idx+1:])
	}

	return s
}

func DecodeAudio(s string) ([]byte, error) {
	bs, err := base64.StdEncoding.DecodeString(StripDataUri(s))
	if err != nil {
		return nil, internal_errors.NewDecodeError("Failed to decode audio: " + err.Error())
	}

	return bs, nil
}
