package coupon

import "kiosk-checkout/internal/model"

// Coupon codes accepted by the store.
const (
	CodePercentOff  = "EM10"
	CodeFixedOff    = "EM2000"
	CodeFreshPromo  = "FRESH5"
	fixedOffAmount  = 2000
	percentOffRate  = 10
	freshPromoRate  = 5
	percentDivision = 100
)

// DefaultRules returns the store's coupon table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Code:        CodePercentOff,
			Description: "10% off the whole purchase",
			Discount: func(subtotal int64, _ []model.CartLine) int64 {
				return subtotal * percentOffRate / percentDivision
			},
		},
		{
			Code:        CodeFixedOff,
			Description: "2,000 won off",
			Discount: func(subtotal int64, _ []model.CartLine) int64 {
				return min(fixedOffAmount, subtotal)
			},
		},
		{
			Code:        CodeFreshPromo,
			Description: "5% off fresh produce",
			Discount: func(_ int64, lines []model.CartLine) int64 {
				var fresh int64
				for _, l := range lines {
					if l.Product.Category == model.CategoryFresh {
						fresh += l.LineTotal()
					}
				}
				return fresh * freshPromoRate / percentDivision
			},
		},
	}
}

// ruleTable implements Resolver over an ordered rule list.
type ruleTable struct {
	rules []Rule
}

// NewResolver creates a resolver over rules. The first rule whose code
// matches wins.
func NewResolver(rules []Rule) Resolver {
	return &ruleTable{rules: rules}
}

// NewDefaultResolver creates a resolver over DefaultRules.
func NewDefaultResolver() Resolver {
	return NewResolver(DefaultRules())
}

// Offers returns the code and description of every rule.
func (r *ruleTable) Offers() []Offer {
	offers := make([]Offer, len(r.rules))
	for i, rule := range r.rules {
		offers[i] = Offer{Code: rule.Code, Description: rule.Description}
	}
	return offers
}

// Resolve returns the discount for code. Blank and unknown codes resolve to
// zero; results are clamped to [0, subtotal].
func (r *ruleTable) Resolve(subtotal int64, lines []model.CartLine, code string) int64 {
	normalized := Normalize(code)
	if normalized == "" {
		return 0
	}

	for _, rule := range r.rules {
		if rule.Code != normalized {
			continue
		}
		discount := rule.Discount(subtotal, lines)
		if discount < 0 {
			return 0
		}
		return min(discount, max(subtotal, 0))
	}
	return 0
}
