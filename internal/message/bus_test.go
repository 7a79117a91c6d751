package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBus(t *testing.T) {
	t.Run("delivers to subscribers of the type", func(t *testing.T) {
		mb := NewMessageBus()
		activity := make(chan Message, 1)
		errs := make(chan Message, 1)
		mb.Subscribe("event.activity", activity)
		mb.Subscribe("event.error", errs)

		mb.Publish(Message{Type: "event.activity", Data: "a"})

		require.Len(t, activity, 1)
		assert.Equal(t, "a", (<-activity).Data)
		assert.Len(t, errs, 0)
	})

	t.Run("drops instead of blocking when full", func(t *testing.T) {
		mb := NewMessageBus()
		ch := make(chan Message, 1)
		mb.Subscribe("event.error", ch)

		mb.Publish(Message{Type: "event.error", Data: 1})
		mb.Publish(Message{Type: "event.error", Data: 2})
		mb.Publish(Message{Type: "event.error", Data: 3})

		assert.Equal(t, int64(2), mb.Dropped())
		assert.Equal(t, 1, (<-ch).Data)
	})

	t.Run("publishing without subscribers is a no-op", func(t *testing.T) {
		mb := NewMessageBus()
		mb.Publish(Message{Type: "event.error"})
		assert.Equal(t, int64(0), mb.Dropped())
	})
}
