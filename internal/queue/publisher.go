package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher sends structured events to named durable queues. Sends are
// fire-and-forget: messages are buffered in an inbox channel and written
// by a background loop; write failures are logged and never surface to
// the caller.
type Publisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	log     *zap.Logger
}

func NewPublisher(brokers []string, buf int, log *zap.Logger) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

func (p *Publisher) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		defer p.w.Close()
		for {
			select {
			case <-ctx.Done():
				// flush whatever is already buffered, then exit
				for {
					select {
					case m, ok := <-p.inbox:
						if !ok {
							return
						}
						p.write(m)
					default:
						return
					}
				}
			case m, ok := <-p.inbox:
				if !ok {
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Publisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Error("queue publish failed",
			zap.String("queue", m.Topic),
			zap.Error(err))
	}
}

// Send marshals the payload and enqueues it for the named queue. A
// payload that cannot be marshaled is dropped with a log entry.
func (p *Publisher) Send(queueName string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("queue payload marshal failed",
			zap.String("queue", queueName),
			zap.Error(err))
		return
	}
	p.inbox <- kafka.Message{
		Topic: queueName,
		Value: b,
		Time:  time.Now(),
	}
}

// Close stops accepting messages; the background loop flushes the rest.
func (p *Publisher) Close() { close(p.inbox) }

// WaitClosed blocks until the flush loop has drained and exited.
func (p *Publisher) WaitClosed() { <-p.closeCh }
