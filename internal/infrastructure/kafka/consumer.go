package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/events"
	"github.com/segmentio/kafka-go"
)

// EnvelopeHandler processes one decoded event envelope.
type EnvelopeHandler func(ctx context.Context, env events.Envelope) error

// Consumer reads event envelopes from a topic as part of a consumer
// group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Consume reads messages until ctx is cancelled, decoding each into an
// envelope and passing it to handler. Undecodable messages and handler
// failures are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler EnvelopeHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[Kafka] Error reading message: %v", err)
				continue
			}

			var env events.Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				log.Printf("[Kafka] Skipping undecodable message: %v", err)
				continue
			}

			if err := handler(ctx, env); err != nil {
				log.Printf("[Kafka] Error handling %s event: %v", env.Type, err)
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
