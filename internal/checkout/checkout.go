package checkout

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/example/storefront/internal/domain/cart"
)

// Status is the checkout lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

var ErrSubmissionInFlight = errors.New("a checkout submission is already in flight")

// Submitter sends an order request and returns the resulting order ID.
type Submitter interface {
	Submit(ctx context.Context, req OrderRequest) (int64, error)
}

// CartStore is the part of the cart the checkout flow needs.
type CartStore interface {
	Items() []cart.LineItem
	TotalItemCount() int
	TotalPrice() float64
	Clear(ctx context.Context)
}

// Checkout drives one cart through the order flow:
// Idle -> Submitting -> Succeeded (cart cleared) or Failed (cart
// retained). There is no automatic retry; a failed checkout goes back
// to requiring an explicit re-trigger.
type Checkout struct {
	mu        sync.Mutex
	store     CartStore
	submitter Submitter
	status    Status
	lastErr   error
	orderID   int64
}

// New creates a Checkout over the given cart and submitter.
func New(store CartStore, submitter Submitter) *Checkout {
	return &Checkout{
		store:     store,
		submitter: submitter,
		status:    StatusIdle,
	}
}

// Status returns the current lifecycle state.
func (c *Checkout) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastError returns the failure from the most recent submission, if any.
func (c *Checkout) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// OrderID returns the order identifier from the most recent successful
// submission.
func (c *Checkout) OrderID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderID
}

// Submit builds an order request from the cart as it exists right now
// and sends it. On success the cart is cleared, but only if it still
// holds something: a response that arrives after the cart was emptied
// by other means must not clear a cart the user has since refilled or
// already emptied. On failure the cart is left untouched and the error
// is retained for the caller to show.
//
// Cart mutations are permitted while a submission is in flight; they
// apply to the live cart and do not affect the request already sent.
// Only one submission may be in flight at a time.
func (c *Checkout) Submit(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if c.status == StatusSubmitting {
		c.mu.Unlock()
		return 0, ErrSubmissionInFlight
	}
	c.status = StatusSubmitting
	c.lastErr = nil
	c.mu.Unlock()

	req := Build(c.store.Items(), c.store.TotalPrice())

	orderID, err := c.submitter.Submit(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = StatusFailed
		c.lastErr = err
		return 0, err
	}

	c.status = StatusSucceeded
	c.orderID = orderID
	if c.store.TotalItemCount() > 0 {
		c.store.Clear(ctx)
	} else {
		log.Printf("[Checkout] Order %d confirmed for an already-empty cart, skipping clear", orderID)
	}
	return orderID, nil
}
