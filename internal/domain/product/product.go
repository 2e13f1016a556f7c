package product

import "strings"

// Attribute set types. The type changes how a picker is rendered
// (color swatch vs. text chip), not the data semantics.
const (
	AttributeTypeSwatch = "swatch"
	AttributeTypeText   = "text"
)

// Currency is an opaque label/symbol pair. Amounts are never converted
// between currencies.
type Currency struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// Price is one entry of a product's price list.
type Price struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// AttributeItem is one selectable value within an attribute set.
// Value carries a hex color for swatch sets and a free-form
// label for text sets; DisplayValue is the human-readable form.
type AttributeItem struct {
	ID           string `json:"id"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
}

// AttributeSet is a named axis of product variation (size, color, ...).
type AttributeSet struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Items []AttributeItem `json:"items"`
}

// Product is the read-only catalog shape. Optional fields (gallery,
// attributes, description) may be absent in the source data and decode
// to their zero values.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	InStock     bool           `json:"inStock"`
	Description string         `json:"description"`
	Brand       string         `json:"brand"`
	Category    string         `json:"category"`
	Gallery     []string       `json:"gallery"`
	Prices      []Price        `json:"prices"`
	Attributes  []AttributeSet `json:"attributes"`
}

// CanonicalPrice returns the first price entry, which is the default
// display and add-to-cart price. ok is false when the product has no
// price list at all.
func (p *Product) CanonicalPrice() (Price, bool) {
	if len(p.Prices) == 0 {
		return Price{}, false
	}
	return p.Prices[0], true
}

// PlainDescription strips markup from the description, leaving text only.
// The description is treated as opaque markup; tags are discarded, their
// contents kept.
func (p *Product) PlainDescription() string {
	var b strings.Builder
	inTag := false
	for _, r := range p.Description {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
