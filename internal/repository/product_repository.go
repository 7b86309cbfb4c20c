package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"item-compare/internal/catalog"
	"item-compare/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductSchema creates a products table in the layout Load expects.
const ProductSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		image_url TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		rating DOUBLE PRECISION NOT NULL CHECK (rating >= 0 AND rating <= 5),
		specifications JSONB NOT NULL DEFAULT '{}'::jsonb,
		currency CHAR(3)
	);
`

// productRepository implements catalog.Loader on top of a PostgreSQL table.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed catalog source.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) catalog.Loader {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Load reads every row of the given table as a product record.
func (r *productRepository) Load(ctx context.Context, table string) ([]model.ProductRecord, error) {
	location := "postgres:" + table

	query := fmt.Sprintf(`
		SELECT id::text, name, image_url, description, price::text, rating, specifications, currency
		FROM %s
		ORDER BY name, id
	`, pgx.Identifier{table}.Sanitize())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Str("table", table).Msg("failed to query products")
		return nil, model.NewSourceUnavailableError(location, err)
	}
	defer rows.Close()

	var records []model.ProductRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, model.NewDataFormatError("%s: record %d: %v", location, len(records), err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, model.NewSourceUnavailableError(location, err)
	}

	r.logger.Info().
		Str("table", table).
		Int("records_loaded", len(records)).
		Msg("products loaded from database")

	return records, nil
}

func scanRecord(rows pgx.Rows) (model.ProductRecord, error) {
	var (
		rec   model.ProductRecord
		price *string
		specs []byte
	)

	err := rows.Scan(
		&rec.ID,
		&rec.Name,
		&rec.ImageURL,
		&rec.Description,
		&price,
		&rec.Rating,
		&specs,
		&rec.Currency,
	)
	if err != nil {
		return rec, fmt.Errorf("scan product: %w", err)
	}

	if price != nil {
		d, err := decimal.NewFromString(*price)
		if err != nil {
			return rec, fmt.Errorf("parse price %q: %w", *price, err)
		}
		rec.Price = &d
	}

	if len(specs) > 0 {
		dec := json.NewDecoder(bytes.NewReader(specs))
		dec.UseNumber()
		if err := dec.Decode(&rec.Specifications); err != nil {
			return rec, fmt.Errorf("decode specifications: %w", err)
		}
	}

	return rec, nil
}
