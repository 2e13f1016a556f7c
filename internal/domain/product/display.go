package product

import (
	"fmt"
	"strings"
)

// FormatPrice renders a price as symbol followed by a two-decimal amount.
func FormatPrice(p Price) string {
	if p.Currency.Symbol == "" && p.Currency.Label == "" {
		return "Price not available"
	}
	return fmt.Sprintf("%s%.2f", p.Currency.Symbol, p.Amount)
}

// ShortenSize maps verbose size labels to their short form (S/M/L/XL/...).
// Unrecognized values pass through unchanged.
func ShortenSize(value string) string {
	if value == "" {
		return ""
	}
	size := strings.ToLower(value)
	switch {
	case strings.Contains(size, "xxxlarge") || size == "xxxl":
		return "XXXL"
	case strings.Contains(size, "xxlarge") || size == "xxl":
		return "XXL"
	case strings.Contains(size, "extra large") || strings.Contains(size, "xlarge") || size == "xl":
		return "XL"
	case strings.Contains(size, "large") || size == "l":
		return "L"
	case strings.Contains(size, "medium") || size == "m":
		return "M"
	case strings.Contains(size, "small") || size == "s":
		return "S"
	}
	return value
}
