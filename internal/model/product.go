package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an item available for comparison. Values are built once
// at catalog load time and never mutated afterwards.
type Product struct {
	ID             uuid.UUID
	Name           string
	ImageURL       string
	Description    string
	Price          decimal.Decimal
	Rating         float64
	Specifications map[string]string
	Currency       string
}

// productJSON is the wire shape of a Product. Price is written as a JSON
// number rather than decimal's default quoted string.
type productJSON struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	ImageURL       string            `json:"image_url"`
	Description    string            `json:"description"`
	Price          json.Number       `json:"price"`
	Rating         float64           `json:"rating"`
	Specifications map[string]string `json:"specifications"`
	Currency       string            `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (p Product) MarshalJSON() ([]byte, error) {
	specs := p.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	return json.Marshal(productJSON{
		ID:             p.ID.String(),
		Name:           p.Name,
		ImageURL:       p.ImageURL,
		Description:    p.Description,
		Price:          json.Number(p.Price.String()),
		Rating:         p.Rating,
		Specifications: specs,
		Currency:       p.Currency,
	})
}

// ProductRecord is a raw product as read from a catalog source. Pointer
// fields stay nil when the source omits them.
type ProductRecord struct {
	ID             *string          `json:"id"`
	Name           *string          `json:"name"`
	ImageURL       *string          `json:"image_url"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Rating         *float64         `json:"rating"`
	Specifications map[string]any   `json:"specifications"`
	Currency       *string          `json:"currency"`
}

// ComparisonResult is the outcome of a batch comparison. Both slices follow
// the first-occurrence order of the request.
type ComparisonResult struct {
	Products []Product   `json:"products"`
	Missing  []uuid.UUID `json:"missing"`
}

// Complete reports whether every requested product was found.
func (r ComparisonResult) Complete() bool {
	return len(r.Missing) == 0
}

// CatalogStatus describes the catalog currently being served.
type CatalogStatus struct {
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loaded_at"`
}
