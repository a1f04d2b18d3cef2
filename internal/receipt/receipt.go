// Package receipt projects a finished transaction into a printable receipt.
package receipt

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/payment"
	"kiosk-checkout/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var vatDivisor = decimal.RequireFromString("1.1")

// Line is a printed cart line.
type Line struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total"`
}

// Receipt is the frozen record of a paid transaction.
type Receipt struct {
	TransactionID uuid.UUID        `json:"transactionId"`
	StoreName     string           `json:"storeName"`
	IssuedAt      time.Time        `json:"issuedAt"`
	Lines         []Line           `json:"lines"`
	Subtotal      int64            `json:"subtotal"`
	Discount      int64            `json:"discount"`
	Total         int64            `json:"total"`
	SupplyAmount  int64            `json:"supplyAmount"`
	VAT           int64            `json:"vat"`
	Coupon        string           `json:"coupon,omitempty"`
	Membership    model.Membership `json:"membership"`
	Payment       payment.Result   `json:"payment"`
}

// Input is everything the receipt is built from.
type Input struct {
	StoreName  string
	Lines      []model.CartLine
	Summary    pricing.Summary
	Coupon     string
	Membership model.Membership
	Payment    payment.Result
}

// Build freezes in into a receipt. The lines are copied.
func Build(in Input) Receipt {
	lines := make([]Line, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = Line{
			Barcode:   l.Product.Barcode,
			Name:      l.Product.Name,
			UnitPrice: l.Product.Price,
			Quantity:  l.Quantity,
			Total:     l.LineTotal(),
		}
	}

	supply, vat := TaxBreakdown(in.Summary.Total)

	return Receipt{
		TransactionID: uuid.New(),
		StoreName:     in.StoreName,
		IssuedAt:      in.Payment.AuthorizedAt,
		Lines:         lines,
		Subtotal:      in.Summary.Subtotal,
		Discount:      in.Summary.Discount,
		Total:         in.Summary.Total,
		SupplyAmount:  supply,
		VAT:           vat,
		Coupon:        in.Coupon,
		Membership:    in.Membership,
		Payment:       in.Payment,
	}
}

// TaxBreakdown splits a VAT-inclusive total into floor(total/1.1) and the
// remainder. Display only.
func TaxBreakdown(total int64) (supply, vat int64) {
	supply = decimal.NewFromInt(total).Div(vatDivisor).Floor().IntPart()
	return supply, total - supply
}

const rule = "----------------------------------------"

// Render writes the receipt as plain text.
func Render(w io.Writer, r Receipt) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "%s\t\n", r.StoreName)
	fmt.Fprintf(tw, "Transaction %s\t\n", r.TransactionID)
	fmt.Fprintf(tw, "%s\t\n", r.IssuedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(tw, rule+"\t")

	for _, l := range r.Lines {
		fmt.Fprintf(tw, "%s x%d\t%s\t\n", l.Name, l.Quantity, FormatKRW(l.Total))
	}
	fmt.Fprintln(tw, rule+"\t")

	fmt.Fprintf(tw, "Subtotal\t%s\t\n", FormatKRW(r.Subtotal))
	if r.Coupon != "" {
		fmt.Fprintf(tw, "Coupon %s\t%s\t\n", r.Coupon, FormatKRW(-r.Discount))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", FormatKRW(r.Total))
	fmt.Fprintf(tw, "  Supply amount\t%s\t\n", FormatKRW(r.SupplyAmount))
	fmt.Fprintf(tw, "  VAT\t%s\t\n", FormatKRW(r.VAT))
	fmt.Fprintln(tw, rule+"\t")

	fmt.Fprintf(tw, "%s\t%s\t\n", r.Payment.Method, r.Payment.MaskedReference())
	if !r.Membership.IsZero() {
		fmt.Fprintf(tw, "Points\t%s\t\n", r.Membership.Identifier)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}
