package catalog

import (
	"context"
	"errors"
	"fmt"

	"kiosk-checkout/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the products table read by the Postgres catalogue.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		barcode VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		category VARCHAR(64) NOT NULL,
		position SERIAL
	);
`

// postgresCatalog implements Catalog using PostgreSQL.
type postgresCatalog struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresCatalog creates a new PostgreSQL-backed catalogue.
func NewPostgresCatalog(pool *pgxpool.Pool, logger zerolog.Logger) Catalog {
	return &postgresCatalog{
		pool:   pool,
		logger: logger.With().Str("catalog", "postgres").Logger(),
	}
}

// Lookup retrieves a single product by barcode.
func (c *postgresCatalog) Lookup(ctx context.Context, barcode string) (*model.Product, error) {
	query := `
		SELECT barcode, name, price, category
		FROM products
		WHERE barcode = $1
	`

	var p model.Product
	err := c.pool.QueryRow(ctx, query, barcode).Scan(&p.Barcode, &p.Name, &p.Price, &p.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.logger.Debug().Str("barcode", barcode).Msg("product not found")
			return nil, nil
		}
		c.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// List retrieves all products in insertion order.
func (c *postgresCatalog) List(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT barcode, name, price, category
		FROM products
		ORDER BY position
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.Barcode, &p.Name, &p.Price, &p.Category); err != nil {
			c.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		c.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Seed inserts products, skipping barcodes that already exist.
func Seed(ctx context.Context, pool *pgxpool.Pool, products []model.Product) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`INSERT INTO products (barcode, name, price, category) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (barcode) DO NOTHING`,
			p.Barcode, p.Name, p.Price, p.Category,
		)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Barcode, err)
		}
	}
	return nil
}
