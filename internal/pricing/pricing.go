// Package pricing derives the amounts shown to the shopper from the cart and
// the applied coupon. Every function is pure; callers recompute on each read.
package pricing

import (
	"kiosk-checkout/internal/coupon"
	"kiosk-checkout/internal/model"
)

// Summary is the priced view of a cart.
type Summary struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Subtotal sums price × quantity over the lines.
func Subtotal(lines []model.CartLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

// Compute prices lines with the applied coupon code (empty for none).
func Compute(resolver coupon.Resolver, lines []model.CartLine, appliedCode string) Summary {
	subtotal := Subtotal(lines)
	discount := resolver.Resolve(subtotal, lines, appliedCode)
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Total:    max(0, subtotal-discount),
	}
}
