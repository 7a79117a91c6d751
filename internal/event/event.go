package event

import "encoding/json"

const (
	TypeActivity = "event.activity"
	TypeError    = "event.error"
)

// Activity reports that a chat stream produced its first content.
type Activity struct {
	Model         string
	Usage         json.RawMessage
	CorrelationId string
}

// Error carries the raw detail of a failed operation. It is never shown to
// the user.
type Error struct {
	Endpoint      string
	Message       string
	Model         string
	Provider      string
	CorrelationId string
}
