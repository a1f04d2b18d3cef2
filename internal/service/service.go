package service

import (
	"context"

	"kiosk-checkout/internal/checkout"
	"kiosk-checkout/internal/coupon"
	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/receipt"
)

// ProductService exposes the catalog to the kiosk surface.
type ProductService interface {
	// List returns every product in catalog order.
	List(ctx context.Context) ([]model.Product, error)

	// GetByBarcode returns a product or model.ErrProductNotFound.
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)

	// Picker lists the barcode-less products of a picker dialog.
	Picker(ctx context.Context, name string) ([]model.Product, error)
}

// KioskService drives the checkout session of this kiosk. Every action
// returns the session snapshot taken after it was applied.
type KioskService interface {
	Snapshot(ctx context.Context) checkout.Snapshot

	Scan(ctx context.Context, barcode string) (checkout.Snapshot, error)
	ChangeQuantity(ctx context.Context, barcode string, delta int) (checkout.Snapshot, error)
	RemoveLine(ctx context.Context, barcode string) (checkout.Snapshot, error)

	OpenOverlay(ctx context.Context, name string) (checkout.Snapshot, error)
	CloseOverlay(ctx context.Context) (checkout.Snapshot, error)

	Checkout(ctx context.Context) (checkout.Snapshot, error)
	SubmitCoupon(ctx context.Context, code string) (checkout.Snapshot, error)
	SkipCoupon(ctx context.Context) (checkout.Snapshot, error)
	Coupons(ctx context.Context) []coupon.Offer

	SelectPointsMethod(ctx context.Context, method string) (checkout.Snapshot, error)
	EnrollPhone(ctx context.Context, phone string) (checkout.Snapshot, error)
	EnrollBarcode(ctx context.Context, value string) (checkout.Snapshot, error)
	ConfirmPoints(ctx context.Context) (checkout.Snapshot, error)
	SkipPoints(ctx context.Context) (checkout.Snapshot, error)

	SelectPaymentTab(ctx context.Context, tab string) (checkout.Snapshot, error)
	Pay(ctx context.Context, method string) (checkout.Snapshot, error)
	InsertCard(ctx context.Context) (checkout.Snapshot, error)

	Previous(ctx context.Context) (checkout.Snapshot, error)
	NewTransaction(ctx context.Context) (checkout.Snapshot, error)

	Receipt(ctx context.Context) (receipt.Receipt, error)
}
