package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"item-compare/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListAll(ctx context.Context) []model.Product {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Product)
}

func (m *MockProductService) GetByID(ctx context.Context, rawID string) (model.Product, error) {
	args := m.Called(ctx, rawID)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductService) Compare(ctx context.Context, rawIDs []string) (model.ComparisonResult, error) {
	args := m.Called(ctx, rawIDs)
	return args.Get(0).(model.ComparisonResult), args.Error(1)
}

func (m *MockProductService) Count(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *MockProductService) Reload(ctx context.Context) (model.CatalogStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CatalogStatus), args.Error(1)
}

var (
	laptopID  = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	phoneID   = uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	unknownID = uuid.MustParse("00000000-0000-4000-8000-000000000001")
)

func testProduct(id uuid.UUID, name, price string) model.Product {
	return model.Product{
		ID:             id,
		Name:           name,
		ImageURL:       "https://example.com/" + id.String() + ".jpg",
		Description:    "Description of " + name,
		Price:          decimal.RequireFromString(price),
		Rating:         4.5,
		Specifications: map[string]string{"color": "black"},
		Currency:       "USD",
	}
}

// productRoutes mounts the handler the way the router does so URL params
// resolve.
func productRoutes(h *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/compare/batch", h.Compare)
	r.Get("/products/health/count", h.Count)
	r.Get("/products/{id}", h.GetByID)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorBody {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestProductHandler_List(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, zerolog.Nop())

	products := []model.Product{
		testProduct(laptopID, "Laptop", "1099.00"),
		testProduct(phoneID, "Phone", "799.50"),
	}
	mockService.On("ListAll", mock.Anything).Return(products)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()

	productRoutes(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, laptopID.String(), body[0]["id"])
	assert.Equal(t, 1099.0, body[0]["price"])
	assert.Equal(t, "USD", body[0]["currency"])
	assert.Equal(t, map[string]any{"color": "black"}, body[0]["specifications"])

	mockService.AssertExpectations(t)
}

func TestProductHandler_GetByID(t *testing.T) {
	laptop := testProduct(laptopID, "Laptop", "1099.00")

	tests := []struct {
		name           string
		path           string
		productID      string
		mockReturn     model.Product
		mockError      error
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "Success",
			path:           "/products/" + laptopID.String(),
			productID:      laptopID.String(),
			mockReturn:     laptop,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Product not found",
			path:           "/products/" + unknownID.String(),
			productID:      unknownID.String(),
			mockError:      model.NewNotFoundError(unknownID),
			expectedStatus: http.StatusNotFound,
			expectedType:   model.ErrCodeProductNotFound,
		},
		{
			name:           "Malformed product ID",
			path:           "/products/P001",
			productID:      "P001",
			mockError:      model.NewInvalidIdentifierError("P001"),
			expectedStatus: http.StatusBadRequest,
			expectedType:   model.ErrCodeInvalidIdentifier,
		},
		{
			name:           "Unexpected error is hidden",
			path:           "/products/" + laptopID.String(),
			productID:      laptopID.String(),
			mockError:      errors.New("disk on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, zerolog.Nop())

			mockService.On("GetByID", mock.Anything, tt.productID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			productRoutes(handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedType != "" {
				body := decodeError(t, rec)
				assert.Equal(t, tt.expectedType, body.Type)
				assert.NotContains(t, body.Message, "disk on fire")
			} else {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "Laptop", body["name"])
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Compare(t *testing.T) {
	laptop := testProduct(laptopID, "Laptop", "1099.00")
	phone := testProduct(phoneID, "Phone", "799.50")

	tests := []struct {
		name           string
		query          string
		expectedIDs    []string
		mockReturn     model.ComparisonResult
		mockError      error
		expectedStatus int
		expectedType   string
	}{
		{
			name:        "Repeated parameters",
			query:       "?product_ids=" + laptopID.String() + "&product_ids=" + phoneID.String(),
			expectedIDs: []string{laptopID.String(), phoneID.String()},
			mockReturn: model.ComparisonResult{
				Products: []model.Product{laptop, phone},
				Missing:  []uuid.UUID{},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "Comma-separated values",
			query:       "?product_ids=" + laptopID.String() + ",%20" + unknownID.String(),
			expectedIDs: []string{laptopID.String(), unknownID.String()},
			mockReturn: model.ComparisonResult{
				Products: []model.Product{laptop},
				Missing:  []uuid.UUID{unknownID},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "No parameters",
			query:          "",
			expectedIDs:    []string{},
			mockError:      model.NewValidationError("minimum 2 items required"),
			expectedStatus: http.StatusBadRequest,
			expectedType:   model.ErrCodeValidation,
		},
		{
			name:           "Malformed identifier",
			query:          "?product_ids=abc&product_ids=" + laptopID.String(),
			expectedIDs:    []string{"abc", laptopID.String()},
			mockError:      model.NewInvalidIdentifierError("abc"),
			expectedStatus: http.StatusBadRequest,
			expectedType:   model.ErrCodeInvalidIdentifier,
		},
		{
			name:           "Nothing found",
			query:          "?product_ids=" + unknownID.String() + "&product_ids=" + phoneID.String(),
			expectedIDs:    []string{unknownID.String(), phoneID.String()},
			mockError:      model.NewNotFoundError(unknownID, phoneID),
			expectedStatus: http.StatusNotFound,
			expectedType:   model.ErrCodeProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, zerolog.Nop())

			mockService.On("Compare", mock.Anything, tt.expectedIDs).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/products/compare/batch"+tt.query, nil)
			rec := httptest.NewRecorder()

			productRoutes(handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, decodeError(t, rec).Type)
			} else {
				var body struct {
					Products []map[string]any `json:"products"`
					Missing  []string         `json:"missing"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Len(t, body.Products, len(tt.mockReturn.Products))
				require.NotNil(t, body.Missing)
				assert.Len(t, body.Missing, len(tt.mockReturn.Missing))
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Compare_NotFoundDetails(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, zerolog.Nop())

	ids := []string{unknownID.String(), phoneID.String()}
	mockService.On("Compare", mock.Anything, ids).
		Return(model.ComparisonResult{}, model.NewNotFoundError(unknownID, phoneID))

	req := httptest.NewRequest(http.MethodGet, "/products/compare/batch?product_ids="+ids[0]+","+ids[1], nil)
	rec := httptest.NewRecorder()

	productRoutes(handler).ServeHTTP(rec, req)

	body := decodeError(t, rec)
	assert.Equal(t, []any{ids[0], ids[1]}, body.Details["requested_ids"])
}

func TestProductHandler_Count(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("Count", mock.Anything).Return(12)

	req := httptest.NewRequest(http.MethodGet, "/products/health/count", nil)
	rec := httptest.NewRecorder()

	productRoutes(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 12, "status": "healthy"}`, rec.Body.String())
	mockService.AssertExpectations(t)
}
