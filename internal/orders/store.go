package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/product"
	_ "github.com/lib/pq"
)

var ErrEmptyOrder = errors.New("order must have at least one item")

// Connect opens a PostgreSQL connection and verifies it.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Store persists submitted orders in a relational database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the orders tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ordersTable = `CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		currency_label VARCHAR(10) NOT NULL DEFAULT 'USD',
		currency_symbol VARCHAR(5) NOT NULL DEFAULT '$'
	)`
	const itemsTable = `CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		quantity INTEGER NOT NULL,
		price_amount NUMERIC(10,2) NOT NULL,
		currency_label VARCHAR(10) NOT NULL,
		currency_symbol VARCHAR(5) NOT NULL,
		selected_attributes JSONB
	)`

	if _, err := s.db.ExecContext(ctx, ordersTable); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, itemsTable); err != nil {
		return fmt.Errorf("failed to create order_items table: %w", err)
	}
	return nil
}

// CreateOrder stores the order and its items in one transaction and
// returns the new order's ID. The order currency falls back from the
// request to the first item's currency to USD; each item likewise falls
// back to the order currency.
func (s *Store) CreateOrder(ctx context.Context, req checkout.OrderRequest) (int64, error) {
	if len(req.Items) == 0 {
		return 0, ErrEmptyOrder
	}

	currency := orderCurrency(req)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (total_amount, currency_label, currency_symbol)
		 VALUES ($1, $2, $3) RETURNING id`,
		req.Total, currency.Label, currency.Symbol,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range req.Items {
		itemCurrency := item.Price.Currency
		if itemCurrency.Label == "" && itemCurrency.Symbol == "" {
			itemCurrency = currency
		}

		attrs, err := json.Marshal(item.SelectedAttributes)
		if err != nil {
			return 0, fmt.Errorf("failed to encode selected attributes: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items
			 (order_id, product_id, name, quantity, price_amount, currency_label, currency_symbol, selected_attributes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			orderID, item.ID, item.Name, item.Quantity,
			item.Price.Amount, itemCurrency.Label, itemCurrency.Symbol, attrs,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return orderID, nil
}

// orderCurrency resolves the overall order currency: the request's own
// currency, then the first item's, then USD.
func orderCurrency(req checkout.OrderRequest) product.Currency {
	if req.Currency.Label != "" || req.Currency.Symbol != "" {
		return req.Currency
	}
	if len(req.Items) > 0 {
		if c := req.Items[0].Price.Currency; c.Label != "" || c.Symbol != "" {
			return c
		}
	}
	return checkout.DefaultCurrency
}
