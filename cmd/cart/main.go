package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/storage"
)

const usage = `Usage: cart <command> [args]

Commands:
  show                         print the cart
  add <product-id> [set=item]  add one unit, attribute choices as set=item pairs
                               (unspecified sets use each set's first item)
  remove <index>               remove the line item at index
  qty <index> <quantity>       set a line item's quantity (0 removes it)
  attr <index> <set> <item>    change one attribute of a line item
  clear                        empty the cart
  checkout                     submit the cart as an order
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	catalogPath := getEnv("CATALOG_FILE", "data.json")
	orderEndpoint := getEnv("ORDER_URL", "http://localhost:8080/api/order")

	st, err := newStorage(ctx)
	if err != nil {
		log.Fatalf("[Cart] %v", err)
	}

	store := cart.NewStore(ctx, st, nil)

	if err := run(ctx, store, catalogPath, orderEndpoint, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("[Cart] %v", err)
	}
}

// newStorage picks the cart slot backend: a local file by default, or
// DynamoDB when CART_STORAGE=dynamo.
func newStorage(ctx context.Context) (storage.Storage, error) {
	if getEnv("CART_STORAGE", "file") == "dynamo" {
		client, err := storage.NewDynamoClient(ctx)
		if err != nil {
			return nil, err
		}
		table := getEnv("CART_TABLE", "storefront-carts")
		slot := getEnv("CART_SLOT", "storefront_cart")
		return storage.NewDynamoStorage(client, table, slot), nil
	}
	return storage.NewFileStorage(getEnv("CART_FILE", ".storefront_cart.json")), nil
}

func run(ctx context.Context, store *cart.Store, catalogPath, orderEndpoint, command string, args []string) error {
	switch command {
	case "show":
		printCart(store)
		return nil

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("add requires a product ID")
		}
		provider, err := catalog.LoadSnapshot(catalogPath)
		if err != nil {
			return err
		}
		p, err := provider.Product(ctx, args[0])
		if err != nil {
			return err
		}

		sel := selection.Defaults(p)
		for _, pair := range args[1:] {
			setID, itemID, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid attribute choice %q, want set=item", pair)
			}
			sel[setID] = itemID
		}

		if err := store.Add(ctx, p, sel); err != nil {
			return err
		}
		printCart(store)
		return nil

	case "remove":
		index, err := parseIndex(args)
		if err != nil {
			return err
		}
		if err := store.Remove(ctx, index); err != nil {
			return err
		}
		printCart(store)
		return nil

	case "qty":
		if len(args) != 2 {
			return fmt.Errorf("qty requires an index and a quantity")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		if err := store.SetQuantity(ctx, index, quantity); err != nil {
			return err
		}
		printCart(store)
		return nil

	case "attr":
		if len(args) != 3 {
			return fmt.Errorf("attr requires an index, a set ID, and an item ID")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		if err := store.SetAttribute(ctx, index, args[1], args[2]); err != nil {
			return err
		}
		printCart(store)
		return nil

	case "clear":
		store.Clear(ctx)
		fmt.Println("Cart cleared.")
		return nil

	case "checkout":
		co := checkout.New(store, checkout.NewClient(orderEndpoint))
		orderID, err := co.Submit(ctx)
		if err != nil {
			return fmt.Errorf("checkout failed: %w", err)
		}
		fmt.Printf("Order placed successfully! Order #%d\n", orderID)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func parseIndex(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one index argument")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", args[0])
	}
	return index, nil
}

func printCart(store *cart.Store) {
	items := store.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty")
		return
	}

	for i, item := range items {
		fmt.Printf("%d: %s x%d @ %s\n", i, item.Name, item.Quantity, product.FormatPrice(item.Price))
		for _, set := range item.Attributes {
			if chosen, ok := item.SelectedAttributes[set.ID]; ok {
				fmt.Printf("   %s: %s\n", set.Name, chosen)
			}
		}
	}

	currency := checkout.DefaultCurrency
	if c := items[0].Price.Currency; c.Label != "" || c.Symbol != "" {
		currency = c
	}
	total := product.Price{Amount: store.TotalPrice(), Currency: currency}
	fmt.Printf("Total: %s (%d items)\n", product.FormatPrice(total), store.TotalItemCount())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
