package events

import (
	"encoding/json"
	"time"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/product"
	"github.com/google/uuid"
)

const TypeOrderPlaced = "OrderPlaced"

// Envelope wraps a domain event for transport over Kafka.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// OrderPlaced is emitted after an order is durably stored.
type OrderPlaced struct {
	OrderID  int64                `json:"order_id"`
	Total    float64              `json:"total"`
	Currency product.Currency     `json:"currency"`
	Items    []checkout.OrderItem `json:"items"`
	PlacedAt time.Time            `json:"placed_at"`
}

// Wrap serializes a domain event into a transport envelope.
func Wrap(eventType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}
