package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/events"
)

// OrderCreator persists a submitted order and returns its ID.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req checkout.OrderRequest) (int64, error)
}

// EventPublisher publishes event envelopes. May be nil when the API
// runs without a broker.
type EventPublisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

type Handlers struct {
	catalog   catalog.Provider
	orders    OrderCreator
	publisher EventPublisher
}

func NewHandlers(cat catalog.Provider, orders OrderCreator, publisher EventPublisher) *Handlers {
	return &Handlers{
		catalog:   cat,
		orders:    orders,
		publisher: publisher,
	}
}

// Catalog handlers

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		log.Printf("[API] Error listing categories: %v", err)
		http.Error(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	products, err := h.catalog.Products(r.Context(), category)
	if err != nil {
		log.Printf("[API] Error listing products: %v", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Printf("[API] Error getting product %s: %v", id, err)
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Order handlers

type orderResult struct {
	Success bool   `json:"success"`
	OrderID int64  `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		respondJSON(w, http.StatusBadRequest, orderResult{Success: false, Error: "Invalid payload"})
		return
	}

	orderID, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		log.Printf("[API] Error storing order: %v", err)
		respondJSON(w, http.StatusInternalServerError, orderResult{Success: false, Error: err.Error()})
		return
	}

	h.publishOrderPlaced(r.Context(), orderID, req)

	respondJSON(w, http.StatusOK, orderResult{Success: true, OrderID: orderID})
}

// publishOrderPlaced emits the OrderPlaced event. Publishing is
// best-effort: the order is already stored, so a broker failure is
// logged, not returned.
func (h *Handlers) publishOrderPlaced(ctx context.Context, orderID int64, req checkout.OrderRequest) {
	if h.publisher == nil {
		return
	}

	env, err := events.Wrap(events.TypeOrderPlaced, events.OrderPlaced{
		OrderID:  orderID,
		Total:    req.Total,
		Currency: req.Currency,
		Items:    req.Items,
		PlacedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[API] Failed to wrap OrderPlaced event for order %d: %v", orderID, err)
		return
	}
	if err := h.publisher.Publish(ctx, env); err != nil {
		log.Printf("[API] Failed to publish OrderPlaced event for order %d: %v", orderID, err)
	}
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"pong": true})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Error encoding response: %v", err)
	}
}

func extractPathParam(path, prefix string) string {
	param := strings.TrimPrefix(path, prefix)
	return strings.TrimSuffix(param, "/")
}
