package message

import (
	"sync"

	"go.uber.org/zap"
)

type Consumer struct {
	messageChan          <-chan Message
	done                 chan struct{}
	once                 sync.Once
	wg                   sync.WaitGroup
	log                  *zap.Logger
	numOfBeaconConsumers int
	handle               func(Message) error
}

func NewConsumer(mc <-chan Message, log *zap.Logger, num int, handle func(Message) error) *Consumer {
	if num < 1 {
		num = 1
	}

	return &Consumer{
		messageChan:          mc,
		done:                 make(chan struct{}),
		log:                  log,
		numOfBeaconConsumers: num,
		handle:               handle,
	}
}

func (c *Consumer) StartBeaconMessageConsumers() {
	for i := 0; i < c.numOfBeaconConsumers; i++ {
		c.wg.Add(1)

		go func() {
			defer c.wg.Done()

			for {
				select {
				case <-c.done:
					c.log.Debug("beacon message consumer stopped...")
					return

				case m := <-c.messageChan:
					err := c.handle(m)
					if err != nil {
						c.log.Debug("error when handling beacon message", zap.String("type", m.Type), zap.Error(err))
					}
				}
			}
		}()
	}
}

// Stop signals every consumer and waits for in flight beacons. Messages still
// queued are dropped.
func (c *Consumer) Stop() {
	c.log.Info("shutting down consumer...")

	c.once.Do(func() {
		close(c.done)
	})

	c.wg.Wait()
}
