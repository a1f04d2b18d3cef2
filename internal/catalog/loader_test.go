package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"kiosk-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestProductFile writes a gzipped product file with the given raw contents.
func createTestProductFile(t *testing.T, contents string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), "products.gz")
	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := createTestProductFile(t, "barcode,name,price,category\n"+
		"8801000000012,Seoul Milk 1L,2500,dairy\n"+
		"NB001, Loose Fruit (S), 2000, fresh\n")

	products, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, model.Product{Barcode: "NB001", Name: "Loose Fruit (S)", Price: 2000, Category: "fresh"}, products[1])
}

func TestFileLoader_Load_WithoutHeader(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := createTestProductFile(t, "BAGL,Waste Bag (L),500,supplies\n")

	products, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "BAGL", products[0].Barcode)
}

func TestFileLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		errorMsg string
	}{
		{name: "Negative price", contents: "A,Thing,-1,misc\n", errorMsg: "invalid price"},
		{name: "Non-numeric price", contents: "A,Thing,abc,misc\n", errorMsg: "invalid price"},
		{name: "Missing barcode", contents: " ,Thing,100,misc\n", errorMsg: "barcode is required"},
		{name: "Wrong column count", contents: "A,Thing,100\n", errorMsg: "row 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())
			path := createTestProductFile(t, tt.contents)

			products, err := loader.Load(context.Background(), path)

			require.Error(t, err)
			assert.Nil(t, products)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), "/nonexistent/products.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open product file")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))

	_, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestEncodeProducts_RoundTripsThroughLoader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeProducts(&buf, DefaultProducts()))

	path := filepath.Join(t.TempDir(), "catalog.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, DefaultProducts(), products)
}
