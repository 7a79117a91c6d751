package message

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConsumer(t *testing.T) {
	ch := make(chan Message, 8)

	var mu sync.Mutex
	handled := []string{}
	handle := func(m Message) error {
		mu.Lock()
		defer mu.Unlock()

		handled = append(handled, m.Type)
		if m.Type == "bad" {
			return errors.New("bad message")
		}

		return nil
	}

	c := NewConsumer(ch, zap.NewNop(), 3, handle)
	c.StartBeaconMessageConsumers()

	ch <- Message{Type: "event.activity"}
	ch <- Message{Type: "bad"}
	ch <- Message{Type: "event.error"}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(handled) == 3
	}, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"event.activity", "bad", "event.error"}, handled)
}
