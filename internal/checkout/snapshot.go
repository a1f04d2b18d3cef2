package checkout

import (
	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/payment"
	"kiosk-checkout/internal/pricing"
	"kiosk-checkout/internal/receipt"

	"github.com/google/uuid"
)

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	SessionID        uuid.UUID              `json:"sessionId"`
	Step             Step                   `json:"step"`
	Overlay          Overlay                `json:"overlay"`
	Lines            []model.CartLine       `json:"lines"`
	Pricing          pricing.Summary        `json:"pricing"`
	LineCount        int                    `json:"lineCount"`
	ItemCount        int                    `json:"itemCount"`
	BagCount         int                    `json:"bagCount"`
	ShoppingBagCount int                    `json:"shoppingBagCount"`
	Coupon           string                 `json:"coupon,omitempty"`
	CouponError      string                 `json:"couponError,omitempty"`
	PointsMethod     model.MembershipMethod `json:"pointsMethod,omitempty"`
	PointsError      string                 `json:"pointsError,omitempty"`
	Membership       model.Membership       `json:"membership"`
	PaymentTab       payment.Tab            `json:"paymentTab"`
	CardProgress     int                    `json:"cardProgress"`
	Payment          *payment.Result        `json:"payment,omitempty"`
	Receipt          *receipt.Receipt       `json:"receipt,omitempty"`
	Focus            FocusTarget            `json:"focus,omitempty"`
}

// Snapshot prices the cart and copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Lines()
	snap := Snapshot{
		SessionID:        s.id,
		Step:             s.step,
		Overlay:          s.overlay,
		Lines:            lines,
		Pricing:          pricing.Compute(s.resolver, lines, s.coupon),
		LineCount:        s.cart.Len(),
		ItemCount:        s.cart.ItemCount(),
		BagCount:         s.cart.BagCount(),
		ShoppingBagCount: s.cart.ShoppingBagCount(),
		Coupon:           s.coupon,
		CouponError:      s.couponError,
		PointsMethod:     s.pointsMethod,
		PointsError:      s.pointsError,
		Membership:       s.membership,
		PaymentTab:       s.tab,
		CardProgress:     s.cardProgress,
		Focus:            s.focusTarget(),
	}

	if s.payment != nil {
		p := *s.payment
		snap.Payment = &p
	}
	if s.receipt != nil {
		r := *s.receipt
		r.Lines = append([]receipt.Line(nil), s.receipt.Lines...)
		snap.Receipt = &r
	}

	return snap
}
