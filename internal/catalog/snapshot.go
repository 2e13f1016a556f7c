package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/storefront/internal/domain/product"
)

// snapshotFile is the on-disk shape: {"data":{"categories":[...],"products":[...]}}.
type snapshotFile struct {
	Data *snapshotData `json:"data"`
}

type snapshotData struct {
	Categories []Category        `json:"categories"`
	Products   []product.Product `json:"products"`
}

// SnapshotProvider serves the catalog from a static JSON snapshot loaded
// once at startup. Missing optional fields on products (gallery,
// attributes, description) decode to empty values; file order is
// preserved as display order.
type SnapshotProvider struct {
	categories []Category
	products   []product.Product
}

// LoadSnapshot reads and parses the snapshot file. A file without the
// "data" root is rejected as malformed rather than served partially.
func LoadSnapshot(path string) (*SnapshotProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot %s: %w", path, err)
	}
	return ParseSnapshot(raw)
}

// ParseSnapshot builds a SnapshotProvider from raw snapshot JSON.
func ParseSnapshot(raw []byte) (*SnapshotProvider, error) {
	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if file.Data == nil {
		return nil, fmt.Errorf("%w: missing data root", ErrMalformedData)
	}
	return &SnapshotProvider{
		categories: file.Data.Categories,
		products:   file.Data.Products,
	}, nil
}

// Categories returns all categories in file order.
func (p *SnapshotProvider) Categories(ctx context.Context) ([]Category, error) {
	out := make([]Category, len(p.categories))
	copy(out, p.categories)
	return out, nil
}

// Products returns products in the given category, or all products when
// category is empty or "all".
func (p *SnapshotProvider) Products(ctx context.Context, category string) ([]product.Product, error) {
	if category == "" || category == "all" {
		out := make([]product.Product, len(p.products))
		copy(out, p.products)
		return out, nil
	}

	out := make([]product.Product, 0)
	for _, prod := range p.products {
		if prod.Category == category {
			out = append(out, prod)
		}
	}
	return out, nil
}

// Product returns the product with the given ID, or ErrProductNotFound.
func (p *SnapshotProvider) Product(ctx context.Context, id string) (*product.Product, error) {
	for i := range p.products {
		if p.products[i].ID == id {
			prod := p.products[i]
			return &prod, nil
		}
	}
	return nil, ErrProductNotFound
}
