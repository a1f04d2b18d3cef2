package catalog

import (
	"context"
	"fmt"

	"kiosk-checkout/internal/model"
)

// Catalog supplies products by barcode.
type Catalog interface {
	// Lookup returns the product with the given barcode, or nil if it is unknown.
	Lookup(ctx context.Context, barcode string) (*model.Product, error)

	// List returns every product in catalogue order.
	List(ctx context.Context) ([]model.Product, error)
}

// Loader reads a product list from a named location.
type Loader interface {
	// Load reads a gzipped CSV product file (barcode,name,price,category).
	Load(ctx context.Context, location string) ([]model.Product, error)
}

// Picker selects the products shown by one of the kiosk's barcode-less dialogs.
type Picker string

const (
	PickerProduce Picker = "produce"
	PickerBag     Picker = "bag"
)

// ParsePicker validates a picker name.
func ParsePicker(name string) (Picker, error) {
	switch Picker(name) {
	case PickerProduce, PickerBag:
		return Picker(name), nil
	}
	return "", fmt.Errorf("unknown picker %q", name)
}

// Matches reports whether p belongs to the picker.
func (pk Picker) Matches(p model.Product) bool {
	switch pk {
	case PickerProduce:
		return p.IsBarcodeless()
	case PickerBag:
		return p.IsBag()
	}
	return false
}

// Pick lists the catalogue products shown by the picker.
func Pick(ctx context.Context, c Catalog, pk Picker) ([]model.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	picked := make([]model.Product, 0, len(products))
	for _, p := range products {
		if pk.Matches(p) {
			picked = append(picked, p)
		}
	}
	return picked, nil
}
