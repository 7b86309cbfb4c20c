package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"item-compare/internal/catalog"
	"item-compare/internal/config"
	"item-compare/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Copies a JSON catalog file into the products table so the service can run
// with CATALOG_SOURCE=postgres. Usage: seed_postgres [path]
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	path := cfg.Catalog.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	ctx := context.Background()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	records, err := catalog.NewFileLoader(logger).Load(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read catalog: %v\n", err)
		os.Exit(1)
	}

	// Validate before touching the database.
	c, err := catalog.NewCatalog(records, cfg.Catalog.DefaultCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catalog rejected: %v\n", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, repository.ProductSchema); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to create products table: %v\n", err)
		os.Exit(1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, image_url, description, price, rating, specifications, currency)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::jsonb, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			image_url = EXCLUDED.image_url,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			rating = EXCLUDED.rating,
			specifications = EXCLUDED.specifications,
			currency = EXCLUDED.currency
	`, pgx.Identifier{cfg.Catalog.Table}.Sanitize())

	batch := &pgx.Batch{}
	for _, p := range c.All() {
		specs, err := json.Marshal(p.Specifications)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to encode specifications of %s: %v\n", p.ID, err)
			os.Exit(1)
		}
		batch.Queue(query, p.ID, p.Name, p.ImageURL, p.Description, p.Price.String(), p.Rating, string(specs), p.Currency)
	}

	results := conn.SendBatch(ctx, batch)
	for range c.Len() {
		if _, err := results.Exec(); err != nil {
			results.Close()
			fmt.Fprintf(os.Stderr, "Insert failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := results.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Batch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d products into %s\n", c.Len(), cfg.Catalog.Table)
}
