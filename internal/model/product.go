package model

import "strings"

// Product categories. CategoryFresh scopes the FRESH5 coupon.
const (
	CategoryDairy    = "dairy"
	CategoryGrocery  = "grocery"
	CategoryFresh    = "fresh"
	CategoryMeat     = "meat"
	CategoryDeli     = "deli"
	CategorySupplies = "supplies"
)

// Barcode prefixes and codes used by the kiosk pickers.
const (
	NoBarcodePrefix    = "NB"
	BagPrefix          = "BAG"
	ShoppingBagBarcode = "SBAG"
)

// Product represents an immutable catalogue entry. Price is in won.
type Product struct {
	Barcode  string `json:"barcode" db:"barcode"`
	Name     string `json:"name" db:"name"`
	Price    int64  `json:"price" db:"price"`
	Category string `json:"category" db:"category"`
}

// IsBarcodeless reports whether the product is picked from the produce picker.
func (p Product) IsBarcodeless() bool {
	return strings.HasPrefix(p.Barcode, NoBarcodePrefix)
}

// IsBag reports whether the product is a pay-as-you-throw bag or a shopping bag.
func (p Product) IsBag() bool {
	return strings.HasPrefix(p.Barcode, BagPrefix) || p.Barcode == ShoppingBagBarcode
}

// CartLine is a product with a strictly positive quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price × quantity.
func (l CartLine) LineTotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}
