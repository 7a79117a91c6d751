package message

import (
	"sync"
	"sync/atomic"

	"github.com/pluely/gateway/internal/telemetry"
)

type Message struct {
	Type string
	Data any
}

type MessageBus struct {
	mu          sync.RWMutex
	Subscribers map[string][]chan<- Message
	dropped     atomic.Int64
}

func NewMessageBus() *MessageBus {
	return &MessageBus{
		Subscribers: make(map[string][]chan<- Message),
	}
}

func (mb *MessageBus) Subscribe(messageType string, subscriber chan<- Message) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.Subscribers[messageType] = append(mb.Subscribers[messageType], subscriber)
}

// Publish never blocks. A message is dropped for every subscriber whose
// queue is full.
func (mb *MessageBus) Publish(ms Message) {
	mb.mu.RLock()
	subscribers := mb.Subscribers[ms.Type]
	mb.mu.RUnlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- ms:
		default:
			mb.dropped.Add(1)
			telemetry.Incr("pluely.message.bus.publish.dropped", []string{"type:" + ms.Type}, 1)
		}
	}
}

func (mb *MessageBus) Dropped() int64 {
	return mb.dropped.Load()
}
