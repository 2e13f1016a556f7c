package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/events"
)

// EmailSender sends an order confirmation.
type EmailSender interface {
	SendOrderConfirmation(to string, orderID int64, total string, items []email.OrderLine) error
}

// Handler processes order events and sends confirmation emails.
type Handler struct {
	emailService EmailSender
	recipient    string
}

// NewHandler creates a notification handler that mails order
// confirmations to recipient.
func NewHandler(emailSvc EmailSender, recipient string) *Handler {
	return &Handler{
		emailService: emailSvc,
		recipient:    recipient,
	}
}

// HandleEvent processes one event envelope from the broker. Events
// other than OrderPlaced are ignored.
func (h *Handler) HandleEvent(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeOrderPlaced {
		return nil
	}

	var e events.OrderPlaced
	if err := json.Unmarshal(env.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}
	return h.handleOrderPlaced(e)
}

func (h *Handler) handleOrderPlaced(e events.OrderPlaced) error {
	lines := make([]email.OrderLine, 0, len(e.Items))
	for _, item := range e.Items {
		subtotal := product.Price{
			Amount:   float64(item.Quantity) * item.Price.Amount,
			Currency: item.Price.Currency,
		}
		lines = append(lines, email.OrderLine{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     product.FormatPrice(item.Price),
			Subtotal:  product.FormatPrice(subtotal),
		})
	}

	total := product.FormatPrice(product.Price{Amount: e.Total, Currency: e.Currency})
	if err := h.emailService.SendOrderConfirmation(h.recipient, e.OrderID, total, lines); err != nil {
		log.Printf("[Notifier] Failed to send confirmation for order %d: %v", e.OrderID, err)
		return err
	}

	log.Printf("[Notifier] Sent confirmation for order %d (%s)", e.OrderID, total)
	return nil
}
