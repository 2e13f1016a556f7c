package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() *product.Product {
	return &product.Product{
		ID:      "apollo-tee",
		Name:    "Apollo Running Short",
		InStock: true,
		Gallery: []string{"https://cdn.example.com/apollo-1.jpg"},
		Prices: []product.Price{
			{Amount: 50.00, Currency: product.Currency{Label: "USD", Symbol: "$"}},
			{Amount: 45.50, Currency: product.Currency{Label: "EUR", Symbol: "€"}},
		},
		Attributes: []product.AttributeSet{
			{
				ID:   "Size",
				Name: "Size",
				Type: product.AttributeTypeText,
				Items: []product.AttributeItem{
					{ID: "S", Value: "S", DisplayValue: "Small"},
					{ID: "M", Value: "M", DisplayValue: "Medium"},
					{ID: "L", Value: "L", DisplayValue: "Large"},
				},
			},
		},
	}
}

func newTestStore(t *testing.T) (*Store, *mocks.MockStorage) {
	t.Helper()
	st := mocks.NewMockStorage()
	return NewStore(context.Background(), st, nil), st
}

// ============================================
// Add Tests
// ============================================

func TestStore_Add_NewLineItem(t *testing.T) {
	store, st := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx, testProduct(), selection.Selection{"Size": "M"})

	require.NoError(t, err)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "apollo-tee", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 50.00, items[0].Price.Amount)
	assert.Equal(t, "USD", items[0].Price.Currency.Label)
	assert.Equal(t, selection.Selection{"Size": "M"}, items[0].SelectedAttributes)
	assert.Equal(t, 1, st.SaveCalls)
}

func TestStore_Add_IdenticalSelectionMerges(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestStore_Add_DistinctSelectionsAppend(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()

	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "L"}))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, selection.Selection{"Size": "M"}, items[0].SelectedAttributes)
	assert.Equal(t, selection.Selection{"Size": "L"}, items[1].SelectedAttributes)
}

func TestStore_Add_SnapshotPriceImmune(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()

	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))

	// A later catalog price change must not affect the snapshot.
	p.Prices[0].Amount = 99.99

	assert.Equal(t, 50.00, store.Items()[0].Price.Amount)
}

func TestStore_Add_NoPrice(t *testing.T) {
	store, st := newTestStore(t)
	ctx := context.Background()
	p := testProduct()
	p.Prices = nil

	err := store.Add(ctx, p, selection.Selection{"Size": "M"})

	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, store.Items())
	assert.Zero(t, st.SaveCalls)
}

func TestStore_Add_OutOfStock(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()
	p.InStock = false

	err := store.Add(ctx, p, selection.Selection{"Size": "M"})

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, store.Items())
}

func TestStore_Add_IncompleteSelection(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx, testProduct(), selection.Selection{})

	assert.ErrorIs(t, err, ErrIncompleteSelection)
	assert.Empty(t, store.Items())
}

func TestStore_Add_NoAttributesTriviallyComplete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()
	p.Attributes = nil

	err := store.Add(ctx, p, selection.Selection{})

	require.NoError(t, err)
	require.Len(t, store.Items(), 1)
}

func TestStore_AddWithDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.AddWithDefaults(ctx, testProduct())

	require.NoError(t, err)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, selection.Selection{"Size": "S"}, items[0].SelectedAttributes)
}

func TestStore_Add_FiresCartOpened(t *testing.T) {
	ctx := context.Background()
	opened := 0
	store := NewStore(ctx, mocks.NewMockStorage(), func() { opened++ })

	require.NoError(t, store.Add(ctx, testProduct(), selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, testProduct(), selection.Selection{"Size": "M"}))

	assert.Equal(t, 2, opened)
}

// ============================================
// Remove / SetQuantity Tests
// ============================================

func TestStore_Remove(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "L"}))

	err := store.Remove(ctx, 0)

	require.NoError(t, err)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, selection.Selection{"Size": "L"}, items[0].SelectedAttributes)
}

func TestStore_Remove_OutOfRange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testProduct(), selection.Selection{"Size": "M"}))

	tests := []struct {
		name  string
		index int
	}{
		{"negative index", -1},
		{"index past end", 1},
		{"far past end", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Remove(ctx, tt.index)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Len(t, store.Items(), 1)
		})
	}
}

func TestStore_SetQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testProduct(), selection.Selection{"Size": "M"}))

	require.NoError(t, store.SetQuantity(ctx, 0, 7))

	assert.Equal(t, 7, store.Items()[0].Quantity)
	assert.Equal(t, 7, store.TotalItemCount())
}

func TestStore_SetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{"zero", 0},
		{"negative", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			ctx := context.Background()
			require.NoError(t, store.Add(ctx, testProduct(), selection.Selection{"Size": "M"}))

			require.NoError(t, store.SetQuantity(ctx, 0, tt.quantity))

			assert.Empty(t, store.Items())
			assert.Zero(t, store.TotalItemCount())
		})
	}
}

// ============================================
// SetAttribute Tests
// ============================================

func TestStore_SetAttribute_NoRemerge(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct()
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "L"}))

	// Make the second item's selection identical to the first; the
	// items must stay separate and keep their positions.
	require.NoError(t, store.SetAttribute(ctx, 1, "Size", "M"))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, selection.Selection{"Size": "M"}, items[0].SelectedAttributes)
	assert.Equal(t, selection.Selection{"Size": "M"}, items[1].SelectedAttributes)
}

func TestStore_SetAttribute_OutOfRange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.SetAttribute(ctx, 0, "Size", "M")

	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

// ============================================
// Totals Tests
// ============================================

func TestStore_Totals(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ten := testProduct()
	ten.ID = "ten"
	ten.Prices = []product.Price{{Amount: 10.00, Currency: product.Currency{Label: "USD", Symbol: "$"}}}
	twentyFive := testProduct()
	twentyFive.ID = "twenty-five"
	twentyFive.Prices = []product.Price{{Amount: 25.00, Currency: product.Currency{Label: "USD", Symbol: "$"}}}

	require.NoError(t, store.Add(ctx, ten, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, ten, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, twentyFive, selection.Selection{"Size": "L"}))

	assert.Equal(t, 3, store.TotalItemCount())
	assert.InDelta(t, 45.00, store.TotalPrice(), 1e-9)
}

func TestStore_Totals_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Zero(t, store.TotalItemCount())
	assert.Zero(t, store.TotalPrice())
}

// ============================================
// Clear Tests
// ============================================

func TestStore_Clear(t *testing.T) {
	store, st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, testProduct(), selection.Selection{"Size": "M"}))

	store.Clear(ctx)

	assert.Zero(t, store.TotalItemCount())
	assert.Empty(t, store.Items())

	// The persisted blob must reflect an empty item list.
	var state persistedState
	require.NoError(t, json.Unmarshal(st.Contents(), &state))
	assert.Empty(t, state.Items)
	assert.JSONEq(t, `{"items":[]}`, string(st.Contents()))
}

// ============================================
// Persistence Tests
// ============================================

func TestStore_RoundTrip(t *testing.T) {
	st := mocks.NewMockStorage()
	ctx := context.Background()

	store := NewStore(ctx, st, nil)
	p := testProduct()
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "L"}))

	// Simulate a restart against the same slot.
	restored := NewStore(ctx, st, nil)

	assert.Equal(t, store.Items(), restored.Items())
	assert.Equal(t, store.TotalItemCount(), restored.TotalItemCount())
	assert.Equal(t, store.TotalPrice(), restored.TotalPrice())
}

func TestStore_CorruptBlobStartsEmpty(t *testing.T) {
	st := mocks.NewMockStorage()
	st.Seed([]byte(`{"items": [not json`))

	store := NewStore(context.Background(), st, nil)

	assert.Empty(t, store.Items())
	assert.Zero(t, store.TotalItemCount())
}

func TestStore_LoadErrorStartsEmpty(t *testing.T) {
	st := mocks.NewMockStorage()
	st.LoadErr = errors.New("disk on fire")

	store := NewStore(context.Background(), st, nil)

	assert.Empty(t, store.Items())
}

func TestStore_UnknownFieldsIgnored(t *testing.T) {
	st := mocks.NewMockStorage()
	st.Seed([]byte(`{"schema_version": 9, "items": [{"id": "p1", "name": "P1", "quantity": 2, "price": {"amount": 5, "currency": {"label": "USD", "symbol": "$"}}, "selectedAttributes": {}, "extra": true}]}`))

	store := NewStore(context.Background(), st, nil)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestStore_AbsentItemsKeyIsEmpty(t *testing.T) {
	st := mocks.NewMockStorage()
	st.Seed([]byte(`{}`))

	store := NewStore(context.Background(), st, nil)

	assert.Empty(t, store.Items())
}

func TestStore_SaveFailureDoesNotFailMutation(t *testing.T) {
	st := mocks.NewMockStorage()
	st.SaveErr = errors.New("write refused")
	ctx := context.Background()
	store := NewStore(ctx, st, nil)

	err := store.Add(ctx, testProduct(), selection.Selection{"Size": "M"})

	require.NoError(t, err)
	assert.Equal(t, 1, store.TotalItemCount())
}

func TestStore_EveryMutationPersists(t *testing.T) {
	store, st := newTestStore(t)
	ctx := context.Background()
	p := testProduct()

	require.NoError(t, store.Add(ctx, p, selection.Selection{"Size": "M"}))
	require.NoError(t, store.SetQuantity(ctx, 0, 4))
	require.NoError(t, store.SetAttribute(ctx, 0, "Size", "L"))
	require.NoError(t, store.Remove(ctx, 0))
	store.Clear(ctx)

	assert.Equal(t, 5, st.SaveCalls)
}
