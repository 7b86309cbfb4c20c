package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"item-compare/internal/model"

	"github.com/google/uuid"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
	minRating            = 0.0
	maxRating            = 5.0
)

// Catalog is an immutable snapshot of every loaded product, indexed by ID.
// It is safe for concurrent use because nothing mutates it after NewCatalog
// returns.
type Catalog struct {
	products map[uuid.UUID]model.Product
	order    []uuid.UUID
}

// Lookup is the resolution of one requested ID against a catalog.
type Lookup struct {
	ID      uuid.UUID
	Product model.Product
	Found   bool
}

// NewCatalog builds a catalog from raw records. Any record with a missing
// field, an out-of-range value or an ID already seen fails the whole build.
func NewCatalog(records []model.ProductRecord, defaultCurrency string) (*Catalog, error) {
	c := &Catalog{
		products: make(map[uuid.UUID]model.Product, len(records)),
		order:    make([]uuid.UUID, 0, len(records)),
	}

	for i, rec := range records {
		p, err := newProduct(i, rec, defaultCurrency)
		if err != nil {
			return nil, err
		}

		if _, exists := c.products[p.ID]; exists {
			return nil, model.NewDataFormatError("record %d: duplicate product id %s", i, p.ID)
		}

		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}

	return c, nil
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id uuid.UUID) (model.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// GetMany resolves each ID in order. Repeated IDs are resolved independently.
func (c *Catalog) GetMany(ids []uuid.UUID) []Lookup {
	out := make([]Lookup, len(ids))
	for i, id := range ids {
		p, ok := c.products[id]
		out[i] = Lookup{ID: id, Product: p, Found: ok}
	}
	return out
}

// All returns every product in load order.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.order))
	for i, id := range c.order {
		out[i] = c.products[id]
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.order)
}

func newProduct(index int, rec model.ProductRecord, defaultCurrency string) (model.Product, error) {
	var p model.Product

	if rec.ID == nil {
		return p, missingField(index, "id")
	}
	id, err := uuid.Parse(strings.TrimSpace(*rec.ID))
	if err != nil {
		return p, model.NewDataFormatError("record %d: id %q is not a valid UUID", index, *rec.ID)
	}
	p.ID = id

	if rec.Name == nil {
		return p, missingField(index, "name")
	}
	if err := checkText(index, "name", *rec.Name, maxNameLength); err != nil {
		return p, err
	}
	p.Name = *rec.Name

	if rec.Description == nil {
		return p, missingField(index, "description")
	}
	if err := checkText(index, "description", *rec.Description, maxDescriptionLength); err != nil {
		return p, err
	}
	p.Description = *rec.Description

	if rec.ImageURL == nil {
		return p, missingField(index, "image_url")
	}
	if !validImageURL(*rec.ImageURL) {
		return p, model.NewDataFormatError("record %d: image_url %q is not an http(s) URL", index, *rec.ImageURL)
	}
	p.ImageURL = *rec.ImageURL

	if rec.Price == nil {
		return p, missingField(index, "price")
	}
	if rec.Price.IsNegative() {
		return p, model.NewDataFormatError("record %d: price %s is negative", index, rec.Price.String())
	}
	p.Price = *rec.Price

	if rec.Rating == nil {
		return p, missingField(index, "rating")
	}
	rating := *rec.Rating
	if math.IsNaN(rating) || rating < minRating || rating > maxRating {
		return p, model.NewDataFormatError("record %d: rating %v outside [0, 5]", index, rating)
	}
	p.Rating = rating

	specs, err := flattenSpecifications(index, rec.Specifications)
	if err != nil {
		return p, err
	}
	p.Specifications = specs

	currency := defaultCurrency
	if rec.Currency != nil {
		currency = *rec.Currency
	}
	currency, ok := NormaliseCurrency(currency)
	if !ok {
		return p, model.NewDataFormatError("record %d: currency %q is not a 3-letter code", index, currency)
	}
	p.Currency = currency

	return p, nil
}

// NormaliseCurrency upper-cases a currency code and reports whether it is
// three ASCII letters.
func NormaliseCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return code, false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return code, false
		}
	}
	return code, true
}

func missingField(index int, field string) error {
	return model.NewDataFormatError("record %d: missing required field %q", index, field)
}

func checkText(index int, field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return model.NewDataFormatError("record %d: %s must not be empty", index, field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return model.NewDataFormatError("record %d: %s longer than %d characters", index, field, maxLen)
	}
	return nil
}

func validImageURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// flattenSpecifications turns a decoded JSON object into string pairs.
// Scalars are stringified; nested objects and arrays are rejected.
func flattenSpecifications(index int, raw map[string]any) (map[string]string, error) {
	specs := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			specs[k] = ""
		case string:
			specs[k] = val
		case bool:
			specs[k] = strconv.FormatBool(val)
		case float64:
			specs[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case int64:
			specs[k] = strconv.FormatInt(val, 10)
		case interface{ String() string }:
			specs[k] = val.String()
		default:
			return nil, model.NewDataFormatError("record %d: specification %q must be a scalar value", index, k)
		}
	}
	return specs, nil
}
