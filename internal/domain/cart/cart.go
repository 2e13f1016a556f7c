package cart

import (
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/selection"
)

// LineItem is one distinct (product, attribute-selection) entry in the
// cart with its own quantity. Price is captured at add-to-cart time and
// never re-fetched; Attributes is a copy of the product's attribute sets
// so the cart can re-render the selection UI on its own.
type LineItem struct {
	ProductID          string                 `json:"id"`
	Name               string                 `json:"name"`
	Quantity           int                    `json:"quantity"`
	Price              product.Price          `json:"price"`
	Gallery            []string               `json:"gallery,omitempty"`
	Attributes         []product.AttributeSet `json:"attributes,omitempty"`
	SelectedAttributes selection.Selection    `json:"selectedAttributes"`
}

// matches reports whether the line item merges with an addition of the
// given product and selection. Identity is (product ID, full selection),
// compared set-by-set and order-independent.
func (li *LineItem) matches(productID string, sel selection.Selection) bool {
	return li.ProductID == productID && li.SelectedAttributes.Equal(sel)
}

// persistedState is the serialized cart shape: {"items":[...]}. Unknown
// extra fields in a stored blob are ignored on read; an absent items key
// reads as an empty cart.
type persistedState struct {
	Items []LineItem `json:"items"`
}
