package coupon

import (
	"strings"

	"kiosk-checkout/internal/model"
)

// Resolver turns a coupon code into a discount amount.
type Resolver interface {
	// Resolve returns the discount for code against the given cart.
	// A result of zero means the code is invalid or not applicable.
	Resolve(subtotal int64, lines []model.CartLine, code string) int64

	// Offers lists the accepted codes in priority order.
	Offers() []Offer
}

// Offer is the shopper-facing view of a rule.
type Offer struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Rule is one entry of the coupon table.
type Rule struct {
	Code        string
	Description string
	Discount    func(subtotal int64, lines []model.CartLine) int64
}

// Normalize trims and upper-cases a scanned or typed code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
