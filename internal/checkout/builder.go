package checkout

import (
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/selection"
)

// DefaultCurrency is used when the cart is empty or a line item carries
// no usable currency.
var DefaultCurrency = product.Currency{Label: "USD", Symbol: "$"}

// OrderItem is one entry of an order submission.
type OrderItem struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Quantity           int                 `json:"quantity"`
	Price              product.Price       `json:"price"`
	SelectedAttributes selection.Selection `json:"selectedAttributes"`
}

// OrderRequest is the order-submission shape. It is constructed fresh
// from the cart at checkout time and never persisted.
type OrderRequest struct {
	Items    []OrderItem      `json:"items"`
	Total    float64          `json:"total"`
	Currency product.Currency `json:"currency"`
}

// Build transforms cart line items into an OrderRequest. A line item
// without a price snapshot gets a zero-amount placeholder in the default
// currency; a nil selection becomes an empty mapping. The overall
// currency comes from the first line item, falling back to the default.
func Build(items []cart.LineItem, total float64) OrderRequest {
	req := OrderRequest{
		Items:    make([]OrderItem, 0, len(items)),
		Total:    total,
		Currency: DefaultCurrency,
	}

	for _, li := range items {
		price := li.Price
		if price.Currency.Label == "" && price.Currency.Symbol == "" {
			price = product.Price{Currency: DefaultCurrency}
		}
		sel := li.SelectedAttributes
		if sel == nil {
			sel = selection.Selection{}
		}
		req.Items = append(req.Items, OrderItem{
			ID:                 li.ProductID,
			Name:               li.Name,
			Quantity:           li.Quantity,
			Price:              price,
			SelectedAttributes: sel,
		})
	}

	if len(items) > 0 {
		if c := items[0].Price.Currency; c.Label != "" || c.Symbol != "" {
			req.Currency = c
		}
	}
	return req
}
