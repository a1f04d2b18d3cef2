package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"kiosk-checkout/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectGetter serves a single in-memory object.
type fakeObjectGetter struct {
	body []byte
	err  error
	key  string
}

func (f *fakeObjectGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.key = *params.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, location string) ([]model.Product, error)
}

func (m *mockLoader) Load(ctx context.Context, location string) ([]model.Product, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, location)
	}
	return nil, errors.New("not implemented")
}

func TestS3Loader_Load(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeProducts(&buf, DefaultProducts()[:3]))

	getter := &fakeObjectGetter{body: buf.Bytes()}
	loader := newS3Loader(getter, "kiosk-bucket", zerolog.Nop())

	products, err := loader.Load(context.Background(), "catalog/products.gz")

	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, "catalog/products.gz", getter.key)
}

func TestS3Loader_Load_GetObjectError(t *testing.T) {
	loader := newS3Loader(&fakeObjectGetter{err: errors.New("access denied")}, "kiosk-bucket", zerolog.Nop())

	_, err := loader.Load(context.Background(), "catalog/products.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get object from S3")
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.Product, error) {
			assert.Equal(t, "catalog/products.gz", location)
			return []model.Product{{Barcode: "S3"}}, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.Product, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/products.gz", zerolog.Nop())
	products, err := fallback.Load(context.Background(), "data/catalog/products.gz")

	require.NoError(t, err)
	assert.Equal(t, "S3", products[0].Barcode)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.Product, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.Product, error) {
			assert.Equal(t, "data/catalog/products.gz", location)
			return []model.Product{{Barcode: "LOCAL"}}, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/products.gz", zerolog.Nop())
	products, err := fallback.Load(context.Background(), "data/catalog/products.gz")

	require.NoError(t, err)
	assert.Equal(t, "LOCAL", products[0].Barcode)
}

func TestFallbackLoader_NoS3Loader(t *testing.T) {
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.Product, error) {
			return []model.Product{{Barcode: "LOCAL"}}, nil
		},
	}

	fallback := NewFallbackLoader(nil, fileLoader, "", zerolog.Nop())
	products, err := fallback.Load(context.Background(), "data/catalog/products.gz")

	require.NoError(t, err)
	assert.Len(t, products, 1)
}
