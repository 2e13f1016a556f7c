package selection

import "github.com/example/storefront/internal/domain/product"

// Selection maps an attribute set ID to the chosen attribute item ID.
// At most one item is chosen per set.
type Selection map[string]string

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Equal reports whether two selections choose the same item for the same
// sets. Comparison is key-by-key and order-independent; nil and empty
// selections are equal.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Complete reports whether every attribute set on the product has a
// chosen item. A product with no attribute sets is trivially complete.
func (s Selection) Complete(p *product.Product) bool {
	for _, set := range p.Attributes {
		if _, ok := s[set.ID]; !ok {
			return false
		}
	}
	return true
}

// Defaults returns a selection choosing the first item of each attribute
// set. Sets without items are left unselected.
func Defaults(p *product.Product) Selection {
	s := make(Selection, len(p.Attributes))
	for _, set := range p.Attributes {
		if len(set.Items) > 0 {
			s[set.ID] = set.Items[0].ID
		}
	}
	return s
}

// State tracks a user's in-progress attribute choices while viewing one
// product. It is created empty when the view opens and discarded when
// the view closes; it is never persisted.
type State struct {
	chosen Selection
}

// NewState returns an empty selection state.
func NewState() *State {
	return &State{chosen: make(Selection)}
}

// Select records the chosen item for an attribute set, overwriting any
// previous choice. No validation is performed.
func (st *State) Select(attributeSetID, attributeItemID string) {
	st.chosen[attributeSetID] = attributeItemID
}

// Chosen returns a copy of the current selection.
func (st *State) Chosen() Selection {
	return st.chosen.Clone()
}

// IsComplete reports whether every attribute set on the product has a
// corresponding choice.
func (st *State) IsComplete(p *product.Product) bool {
	return st.chosen.Complete(p)
}

// CanAddToCart reports whether the product may be added: it must be in
// stock and the selection must be complete.
func (st *State) CanAddToCart(p *product.Product) bool {
	return p.InStock && st.IsComplete(p)
}
