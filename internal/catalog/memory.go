package catalog

import (
	"context"

	"kiosk-checkout/internal/model"
)

// memoryCatalog implements Catalog over a fixed product list.
type memoryCatalog struct {
	products []model.Product
	index    map[string]int
}

// NewMemoryCatalog creates a read-only catalogue. Later duplicates of a
// barcode are ignored.
func NewMemoryCatalog(products []model.Product) Catalog {
	c := &memoryCatalog{
		products: make([]model.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.index[p.Barcode]; exists {
			continue
		}
		c.index[p.Barcode] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Lookup returns the product with the given barcode, or nil if it is unknown.
func (c *memoryCatalog) Lookup(_ context.Context, barcode string) (*model.Product, error) {
	i, ok := c.index[barcode]
	if !ok {
		return nil, nil
	}
	p := c.products[i]
	return &p, nil
}

// List returns every product in catalogue order.
func (c *memoryCatalog) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// DefaultProducts is the demo store's catalogue.
func DefaultProducts() []model.Product {
	return []model.Product{
		{Barcode: "8801000000012", Name: "Seoul Milk 1L", Price: 2500, Category: model.CategoryDairy},
		{Barcode: "8801000000036", Name: "Instant Rice (3 pack)", Price: 4380, Category: model.CategoryGrocery},
		{Barcode: "8801000000029", Name: "Shin Ramyun (5 pack)", Price: 4780, Category: model.CategoryGrocery},
		{Barcode: "8801000000104", Name: "Apples (4)", Price: 5980, Category: model.CategoryFresh},
		{Barcode: "8801000000081", Name: "Bananas (1 bunch)", Price: 3980, Category: model.CategoryFresh},
		{Barcode: "8801000000043", Name: "Chicken Breast 1kg", Price: 10900, Category: model.CategoryMeat},
		{Barcode: "NB001", Name: "Loose Fruit (S)", Price: 2000, Category: model.CategoryFresh},
		{Barcode: "NB002", Name: "Loose Vegetables (S)", Price: 1500, Category: model.CategoryFresh},
		{Barcode: "NB003", Name: "Fresh Fried Snacks (S)", Price: 2500, Category: model.CategoryDeli},
		{Barcode: "BAGL", Name: "Waste Bag (L)", Price: 500, Category: model.CategorySupplies},
		{Barcode: "BAGM", Name: "Waste Bag (M)", Price: 300, Category: model.CategorySupplies},
		{Barcode: "SBAG", Name: "Shopping Bag (L)", Price: 1500, Category: model.CategorySupplies},
	}
}
