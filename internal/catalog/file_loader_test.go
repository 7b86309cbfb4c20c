package catalog

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"item-compare/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "products": [
    {
      "id": "f47ac10b-58cc-4372-a567-0e02b2c3d479",
      "name": "Sony WH-1000XM5 Wireless Headphones",
      "image_url": "https://images.example.com/sony-wh1000xm5.jpg",
      "description": "Industry-leading noise canceling headphones",
      "price": 399.99,
      "rating": 4.8,
      "specifications": {"brand": "Sony", "battery_life": "30 hours", "noise_cancellation": true, "weight_grams": 250},
      "currency": "USD"
    },
    {
      "id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
      "name": "MacBook Air 13",
      "image_url": "https://images.example.com/macbook-air.jpg",
      "description": "Thin and light laptop",
      "price": "1099.00",
      "rating": 4.7
    }
  ]
}`

// createTestCatalogFile writes content to a temp file, gzipping it when the
// name ends in .gz.
func createTestCatalogFile(t *testing.T, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	if strings.HasSuffix(filename, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		_, err = gzipWriter.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gzipWriter.Close())
		return filePath
	}

	_, err = file.WriteString(content)
	require.NoError(t, err)

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "products.json", sampleDocument)

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", *records[0].ID)
	assert.Equal(t, "399.99", records[0].Price.String())
	assert.Equal(t, "1099", records[1].Price.String())
	assert.Nil(t, records[1].Currency)
	assert.Nil(t, records[1].Specifications)
}

func TestFileLoader_Load_Gzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "products.json.gz", sampleDocument)

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFileLoader_Load_BareArray(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "products.json", `[{"id": "f47ac10b-58cc-4372-a567-0e02b2c3d479"}]`)

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Name)
}

func TestFileLoader_Load_NumbersInSpecificationsKeepTheirText(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "products.json", sampleDocument)

	records, err := loader.Load(context.Background(), filePath)
	require.NoError(t, err)

	c, err := NewCatalog(records, "USD")
	require.NoError(t, err)

	all := c.All()
	assert.Equal(t, "250", all[0].Specifications["weight_grams"])
	assert.Equal(t, "true", all[0].Specifications["noise_cancellation"])
	assert.Equal(t, "USD", all[1].Currency)
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	records, err := loader.Load(context.Background(), "/nonexistent/path/to/products.json")

	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := filepath.Join(t.TempDir(), "invalid.json.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not a gzip file"), 0644))

	records, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, model.ErrDataFormat)
	assert.Contains(t, err.Error(), "invalid gzip stream")
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "products.json", sampleDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := loader.Load(ctx, filePath)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, records)
}

func TestDecodeRecords_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		errMatch string
	}{
		{"empty document", "   ", "empty document"},
		{"invalid JSON", `{"products": [`, "invalid JSON"},
		{"missing products key", `{"items": []}`, `expected {"products": [...]}`},
		{"products not an array", `{"products": {}}`, "invalid JSON"},
		{"scalar document", `42`, "expected a JSON object or array"},
		{"record not an object", `{"products": ["oops"]}`, "record 0"},
		{"wrong field type", `[{"rating": "high"}]`, "record 0"},
		{"specifications not an object", `[{"specifications": ["a"]}]`, "record 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeRecords(strings.NewReader(tt.content), "test.json")

			require.Error(t, err)
			assert.Nil(t, records)
			assert.ErrorIs(t, err, model.ErrDataFormat)
			assert.Contains(t, err.Error(), tt.errMatch)
		})
	}
}

func TestDecodeRecords_EmptyCatalog(t *testing.T) {
	records, err := DecodeRecords(strings.NewReader(`{"products": []}`), "test.json")

	require.NoError(t, err)
	assert.Empty(t, records)
}
