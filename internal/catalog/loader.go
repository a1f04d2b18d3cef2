package catalog

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"kiosk-checkout/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped product files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based product loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped product file from the local file system.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	l.logger.Info().Str("file", filePath).Msg("loading product file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open product file")
		return nil, fmt.Errorf("failed to open product file %s: %w", filePath, err)
	}
	defer file.Close()

	products, err := decodeProducts(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode product file")
		return nil, fmt.Errorf("failed to decode product file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products_loaded", len(products)).
		Msg("product file loaded successfully")

	return products, nil
}

// decodeProducts reads gzipped CSV rows of barcode,name,price,category.
// A leading header row and blank lines are skipped.
func decodeProducts(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	var products []model.Product
	for row := 1; ; row++ {
		if row%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		if row == 1 && strings.EqualFold(record[0], "barcode") {
			continue
		}

		price, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("row %d: invalid price %q", row, record[2])
		}

		barcode := strings.TrimSpace(record[0])
		if barcode == "" {
			return nil, fmt.Errorf("row %d: barcode is required", row)
		}

		products = append(products, model.Product{
			Barcode:  barcode,
			Name:     strings.TrimSpace(record[1]),
			Price:    price,
			Category: strings.TrimSpace(record[3]),
		})
	}

	return products, nil
}

// EncodeProducts writes products as a gzipped CSV file with a header row.
func EncodeProducts(w io.Writer, products []model.Product) error {
	gzipWriter := gzip.NewWriter(w)
	writer := csv.NewWriter(gzipWriter)

	if err := writer.Write([]string{"barcode", "name", "price", "category"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range products {
		record := []string{p.Barcode, p.Name, strconv.FormatInt(p.Price, 10), p.Category}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.Barcode, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return gzipWriter.Close()
}
