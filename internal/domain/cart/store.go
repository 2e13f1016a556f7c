package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/storage"
)

var (
	ErrInvalidProduct      = errors.New("product has no price entry")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrIncompleteSelection = errors.New("attribute selection is incomplete")
	ErrIndexOutOfRange     = errors.New("line item index out of range")
)

// Store is the single source of truth for cart state. All mutations go
// through it; each one durably writes the full state before returning.
// Persistence is best-effort: a failed write is logged and never
// surfaced, and the next read always sees the in-memory state.
type Store struct {
	mu      sync.RWMutex
	items   []LineItem
	storage storage.Storage
	onOpen  func()
}

// NewStore creates a Store backed by st and rehydrates any previously
// persisted state. A missing, corrupt, or unparseable blob is treated as
// an empty cart, never an error. onOpen, if non-nil, is called after
// every successful Add so the UI can pop the cart panel; it may be nil.
func NewStore(ctx context.Context, st storage.Storage, onOpen func()) *Store {
	s := &Store{storage: st, onOpen: onOpen}

	data, err := st.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[Cart] Failed to load persisted cart, starting empty: %v", err)
		}
		return s
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("[Cart] Persisted cart is unreadable, starting empty: %v", err)
		return s
	}
	s.items = state.Items
	return s
}

// Add puts one unit of the product with the given selection into the
// cart. A matching line item (same product ID, same full selection) has
// its quantity incremented; otherwise a new line item is appended with
// the product's canonical price as its snapshot.
//
// Validation is centralized here: out-of-stock products and incomplete
// selections are rejected with typed errors rather than trusting the
// caller to gate the action.
func (s *Store) Add(ctx context.Context, p *product.Product, sel selection.Selection) error {
	price, ok := p.CanonicalPrice()
	if !ok {
		return ErrInvalidProduct
	}
	if !p.InStock {
		return ErrOutOfStock
	}
	if !sel.Complete(p) {
		return ErrIncompleteSelection
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].matches(p.ID, sel) {
			s.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, LineItem{
			ProductID:          p.ID,
			Name:               p.Name,
			Quantity:           1,
			Price:              price,
			Gallery:            p.Gallery,
			Attributes:         p.Attributes,
			SelectedAttributes: sel.Clone(),
		})
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	if s.onOpen != nil {
		s.onOpen()
	}
	return nil
}

// AddWithDefaults adds the product with each attribute set's first item
// chosen, for products added straight from a listing without visiting
// the attribute picker.
func (s *Store) AddWithDefaults(ctx context.Context, p *product.Product) error {
	return s.Add(ctx, p, selection.Defaults(p))
}

// Remove deletes the line item at index. Subsequent items shift down.
func (s *Store) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.persistLocked(ctx)
	return nil
}

// SetQuantity overwrites the quantity of the line item at index. A
// quantity of zero or less removes the line item; no upper bound is
// enforced.
func (s *Store) SetQuantity(ctx context.Context, index, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	if quantity <= 0 {
		s.items = append(s.items[:index], s.items[index+1:]...)
	} else {
		s.items[index].Quantity = quantity
	}
	s.persistLocked(ctx)
	return nil
}

// SetAttribute overwrites one key of the line item's frozen selection.
// Completeness is not re-validated and the item keeps its position: it
// is never re-merged with a line item that now has an identical
// selection. Merging happens only at Add time.
func (s *Store) SetAttribute(ctx context.Context, index int, attributeSetID, attributeItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	if s.items[index].SelectedAttributes == nil {
		s.items[index].SelectedAttributes = make(selection.Selection)
	}
	s.items[index].SelectedAttributes[attributeSetID] = attributeItemID
	s.persistLocked(ctx)
	return nil
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked(ctx)
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	for i := range items {
		items[i].SelectedAttributes = items[i].SelectedAttributes.Clone()
	}
	return items
}

// TotalItemCount returns the sum of quantities of all line items,
// recomputed on every call.
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of quantity times snapshot price amount
// over all line items, recomputed on every call. It is never cached.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.items {
		total += float64(item.Quantity) * item.Price.Amount
	}
	return total
}

// persistLocked writes the full cart state to storage. Failures are
// logged and deliberately swallowed so persistence never blocks or
// fails a cart operation. Callers must hold s.mu.
func (s *Store) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(persistedState{Items: items})
	if err != nil {
		log.Printf("[Cart] Failed to serialize cart state: %v", err)
		return
	}
	if err := s.storage.Save(ctx, data); err != nil {
		log.Printf("[Cart] Failed to persist cart state: %v", err)
	}
}
