package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/storefront/internal/events"
	"github.com/segmentio/kafka-go"
)

// Producer publishes event envelopes to a single topic.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// Publish writes the envelope keyed by its event ID.
func (p *Producer) Publish(ctx context.Context, env events.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.ID),
		Value: data,
		Time:  env.Timestamp,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
