package integration

import (
	"context"
	"testing"

	"kiosk-checkout/internal/catalog"
	"kiosk-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCatalog_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	c := catalog.NewPostgresCatalog(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("List returns products in seed order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := c.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, catalog.DefaultProducts(), products)
	})

	t.Run("Seed is idempotent", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := c.List(ctx)
		require.NoError(t, err)
		assert.Len(t, products, len(catalog.DefaultProducts()))
	})

	t.Run("Lookup returns the product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		product, err := c.Lookup(ctx, "8801000000012")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Seoul Milk 1L", product.Name)
		assert.Equal(t, int64(2500), product.Price)
		assert.Equal(t, model.CategoryDairy, product.Category)
	})

	t.Run("Lookup returns nil for unknown barcode", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		product, err := c.Lookup(ctx, "0000000000000")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("Pickers read from the database", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		bags, err := catalog.Pick(ctx, c, catalog.PickerBag)
		require.NoError(t, err)

		var barcodes []string
		for _, p := range bags {
			barcodes = append(barcodes, p.Barcode)
		}
		assert.Equal(t, []string{"BAGL", "BAGM", "SBAG"}, barcodes)
	})

	t.Run("Empty table lists nothing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		products, err := c.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}
