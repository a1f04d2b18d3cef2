package service

import (
	"context"
	"fmt"
	"strings"

	"kiosk-checkout/internal/catalog"
	"kiosk-checkout/internal/model"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	catalog catalog.Catalog
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(c catalog.Catalog, logger zerolog.Logger) ProductService {
	return &productService{
		catalog: c,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// List returns every product.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("listed products")
	return products, nil
}

// GetByBarcode retrieves a single product.
func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		s.logger.Warn().Msg("barcode is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.catalog.Lookup(ctx, barcode)
	if err != nil {
		s.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to look up product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("barcode", barcode).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Picker lists the products offered by the produce or bag picker.
func (s *productService) Picker(ctx context.Context, name string) ([]model.Product, error) {
	picker, err := catalog.ParsePicker(name)
	if err != nil {
		return nil, model.ErrProductNotFound
	}

	products, err := catalog.Pick(ctx, s.catalog, picker)
	if err != nil {
		s.logger.Error().Err(err).Str("picker", name).Msg("failed to list picker products")
		return nil, fmt.Errorf("failed to list picker products: %w", err)
	}

	return products, nil
}
