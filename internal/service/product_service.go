package service

import (
	"context"
	"fmt"

	"item-compare/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CompareBounds holds the inclusive limits on distinct ids per comparison.
type CompareBounds struct {
	Min int
	Max int
}

// productService implements ProductService.
type productService struct {
	store  CatalogReader
	bounds CompareBounds
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(store CatalogReader, bounds CompareBounds, logger zerolog.Logger) ProductService {
	return &productService{
		store:  store,
		bounds: bounds,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// ListAll returns every product in catalog order.
func (s *productService) ListAll(ctx context.Context) []model.Product {
	products := s.store.All()

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, rawID string) (model.Product, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		s.logger.Debug().Str("product_id", rawID).Msg("malformed product ID")
		return model.Product{}, model.NewInvalidIdentifierError(rawID)
	}

	product, ok := s.store.Get(id)
	if !ok {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return model.Product{}, model.NewNotFoundError(id)
	}

	return product, nil
}

// Compare validates the requested ids and resolves them in first-occurrence
// order. A partial match is a success; only a batch where nothing resolves
// is reported as not found.
func (s *productService) Compare(ctx context.Context, rawIDs []string) (model.ComparisonResult, error) {
	ids, err := parseIDs(rawIDs)
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected compare request")
		return model.ComparisonResult{}, err
	}

	ids = dedupe(ids)

	if len(ids) < s.bounds.Min {
		return model.ComparisonResult{}, model.NewValidationError(
			fmt.Sprintf("minimum %d items required", s.bounds.Min))
	}
	if len(ids) > s.bounds.Max {
		return model.ComparisonResult{}, model.NewValidationError(
			fmt.Sprintf("maximum %d items allowed", s.bounds.Max))
	}

	result := model.ComparisonResult{
		Products: make([]model.Product, 0, len(ids)),
		Missing:  []uuid.UUID{},
	}

	for _, l := range s.store.GetMany(ids) {
		if l.Found {
			result.Products = append(result.Products, l.Product)
		} else {
			result.Missing = append(result.Missing, l.ID)
		}
	}

	if len(result.Products) == 0 {
		s.logger.Debug().Int("requested", len(ids)).Msg("no requested products found")
		return model.ComparisonResult{}, model.NewNotFoundError(ids...)
	}

	if len(result.Missing) > 0 {
		s.logger.Warn().
			Strs("missing_ids", uuidStrings(result.Missing)).
			Int("requested", len(ids)).
			Int("found", len(result.Products)).
			Msg("partial comparison result")
	}

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(result.Products)).
		Msg("compared products")

	return result, nil
}

// Count returns the number of products in the catalog.
func (s *productService) Count(ctx context.Context) int {
	return s.store.Len()
}

// Reload re-reads the catalog source. The previous catalog keeps serving if
// the reload fails.
func (s *productService) Reload(ctx context.Context) (model.CatalogStatus, error) {
	count, err := s.store.Reload(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog reload failed")
		return model.CatalogStatus{}, fmt.Errorf("failed to reload catalog: %w", err)
	}

	status := model.CatalogStatus{
		Count:    count,
		LoadedAt: s.store.LoadedAt(),
	}

	s.logger.Info().Int("count", count).Msg("catalog reloaded")

	return status, nil
}

// parseIDs parses every entry, failing on the first malformed one.
func parseIDs(rawIDs []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, model.NewInvalidIdentifierError(raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// dedupe drops repeated ids, keeping the first occurrence of each.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
