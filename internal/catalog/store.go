package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"item-compare/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// snapshot pairs a catalog with the time it was published.
type snapshot struct {
	catalog  *Catalog
	loadedAt time.Time
}

// Store serves reads from the current catalog snapshot. Reload builds a new
// catalog off to the side and publishes it with a single pointer swap, so
// readers never block and never see a half-built catalog.
type Store struct {
	current         atomic.Pointer[snapshot]
	loader          Loader
	location        string
	defaultCurrency string
	logger          zerolog.Logger

	// reloadMu serialises reloads; readers never take it.
	reloadMu sync.Mutex
}

// NewStore loads the catalog from location and returns a ready store.
// A load failure is returned as-is and no store is created.
func NewStore(ctx context.Context, loader Loader, location, defaultCurrency string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		loader:          loader,
		location:        location,
		defaultCurrency: defaultCurrency,
		logger:          logger.With().Str("component", "catalog-store").Logger(),
	}

	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// NewStaticStore wraps an already built catalog. Reload is not available.
func NewStaticStore(c *Catalog, logger zerolog.Logger) *Store {
	s := &Store{
		logger: logger.With().Str("component", "catalog-store").Logger(),
	}
	s.current.Store(&snapshot{catalog: c, loadedAt: time.Now().UTC()})
	return s
}

// Reload reads the source again and swaps in the new catalog. On failure the
// previous catalog stays in place. It returns the new product count.
func (s *Store) Reload(ctx context.Context) (int, error) {
	if s.loader == nil {
		return 0, fmt.Errorf("catalog store has no loader configured")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()

	records, err := s.loader.Load(ctx, s.location)
	if err != nil {
		s.logger.Error().Err(err).Str("location", s.location).Msg("failed to load catalog source")
		return 0, err
	}

	c, err := NewCatalog(records, s.defaultCurrency)
	if err != nil {
		s.logger.Error().Err(err).Str("location", s.location).Msg("catalog source rejected")
		return 0, err
	}

	s.current.Store(&snapshot{catalog: c, loadedAt: time.Now().UTC()})

	s.logger.Info().
		Str("location", s.location).
		Int("products", c.Len()).
		Dur("duration", time.Since(start)).
		Msg("catalog published")

	return c.Len(), nil
}

// Snapshot returns the catalog currently being served.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load().catalog
}

// LoadedAt returns when the current catalog was published.
func (s *Store) LoadedAt() time.Time {
	return s.current.Load().loadedAt
}

// Get returns the product with the given ID.
func (s *Store) Get(id uuid.UUID) (model.Product, bool) {
	return s.Snapshot().Get(id)
}

// GetMany resolves each ID in order against a single snapshot.
func (s *Store) GetMany(ids []uuid.UUID) []Lookup {
	return s.Snapshot().GetMany(ids)
}

// All returns every product in load order.
func (s *Store) All() []model.Product {
	return s.Snapshot().All()
}

// Len returns the number of products in the current catalog.
func (s *Store) Len() int {
	return s.Snapshot().Len()
}
