package catalog

import (
	"context"
	"errors"

	"github.com/example/storefront/internal/domain/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrMalformedData   = errors.New("catalog data is malformed")
)

// Category is a catalog category. "all" is a virtual category matching
// every product and is not listed here.
type Category struct {
	Name string `json:"name"`
}

// Provider supplies the read-only catalog: categories and products with
// their galleries, prices, and attribute sets.
type Provider interface {
	Categories(ctx context.Context) ([]Category, error)
	Products(ctx context.Context, category string) ([]product.Product, error)
	Product(ctx context.Context, id string) (*product.Product, error)
}
