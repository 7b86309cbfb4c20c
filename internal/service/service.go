package service

import (
	"context"
	"time"

	"item-compare/internal/catalog"
	"item-compare/internal/model"

	"github.com/google/uuid"
)

// ProductService defines the read operations over the product catalog.
type ProductService interface {
	// ListAll returns every product in catalog order.
	ListAll(ctx context.Context) []model.Product

	// GetByID retrieves a single product by its raw identifier.
	GetByID(ctx context.Context, rawID string) (model.Product, error)

	// Compare resolves a batch of raw identifiers into a comparison result.
	Compare(ctx context.Context, rawIDs []string) (model.ComparisonResult, error)

	// Count returns the number of products in the catalog.
	Count(ctx context.Context) int

	// Reload re-reads the catalog source and reports the new catalog.
	Reload(ctx context.Context) (model.CatalogStatus, error)
}

// CatalogReader is the view of the catalog store the service depends on.
// *catalog.Store satisfies it.
type CatalogReader interface {
	Get(id uuid.UUID) (model.Product, bool)
	GetMany(ids []uuid.UUID) []catalog.Lookup
	All() []model.Product
	Len() int
	Reload(ctx context.Context) (int, error)
	LoadedAt() time.Time
}
