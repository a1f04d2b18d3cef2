package cart

import (
	"context"
	"fmt"
	"strings"

	"kiosk-checkout/internal/model"
)

// ProductLookup resolves a barcode to a product. A nil product means the
// barcode is unknown.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (*model.Product, error)
}

// Cart holds the scanned lines in scan order. Every line has a positive
// quantity and no two lines share a barcode.
type Cart struct {
	lookup ProductLookup
	lines  []model.CartLine
}

// New creates an empty cart backed by the given lookup.
func New(lookup ProductLookup) *Cart {
	return &Cart{lookup: lookup}
}

// AddByCode looks the barcode up and adds one unit. Unknown and blank
// barcodes are ignored; added reports whether the cart changed.
func (c *Cart) AddByCode(ctx context.Context, code string) (added bool, err error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	product, err := c.lookup.Lookup(ctx, code)
	if err != nil {
		return false, fmt.Errorf("failed to look up barcode %s: %w", code, err)
	}
	if product == nil {
		return false, nil
	}

	c.Add(*product)
	return true, nil
}

// Add increments the product's line, creating it if needed.
func (c *Cart) Add(p model.Product) {
	if i := c.indexOf(p.Barcode); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, model.CartLine{Product: p, Quantity: 1})
}

// ChangeQuantity adjusts a line by delta and removes it when the result is
// not positive. It reports whether the barcode was in the cart.
func (c *Cart) ChangeQuantity(code string, delta int) bool {
	i := c.indexOf(code)
	if i < 0 {
		return false
	}

	next := c.lines[i].Quantity + delta
	if next <= 0 {
		c.removeAt(i)
		return true
	}
	c.lines[i].Quantity = next
	return true
}

// RemoveLine deletes the line if present.
func (c *Cart) RemoveLine(code string) bool {
	i := c.indexOf(code)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the sum of all quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// BagCount counts pay-as-you-throw bags.
func (c *Cart) BagCount() int {
	n := 0
	for _, l := range c.lines {
		if strings.HasPrefix(l.Product.Barcode, model.BagPrefix) {
			n += l.Quantity
		}
	}
	return n
}

// ShoppingBagCount counts reusable shopping bags.
func (c *Cart) ShoppingBagCount() int {
	n := 0
	for _, l := range c.lines {
		if l.Product.Barcode == model.ShoppingBagBarcode {
			n += l.Quantity
		}
	}
	return n
}

// Reset empties the cart.
func (c *Cart) Reset() {
	c.lines = nil
}

func (c *Cart) indexOf(code string) int {
	for i, l := range c.lines {
		if l.Product.Barcode == code {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
