package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"item-compare/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves objects from memory.
type fakeS3 struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)
	f.calls = append(f.calls, aws.ToString(params.Bucket)+"/"+key)

	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey: the specified key does not exist")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, location string) ([]model.ProductRecord, error)
}

func (m *mockLoader) Load(ctx context.Context, location string) ([]model.ProductRecord, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, location)
	}
	return nil, errors.New("not implemented")
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestS3Loader_Load_Success(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"catalog/products.json": []byte(sampleDocument),
	}}
	loader := newS3Loader(client, "my-bucket", zerolog.Nop())

	records, err := loader.Load(context.Background(), "catalog/products.json")

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, []string{"my-bucket/catalog/products.json"}, client.calls)
}

func TestS3Loader_Load_Gzip(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"products.json.gz": gzipBytes(t, sampleDocument),
	}}
	loader := newS3Loader(client, "my-bucket", zerolog.Nop())

	records, err := loader.Load(context.Background(), "products.json.gz")

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestS3Loader_Load_MissingObject(t *testing.T) {
	loader := newS3Loader(&fakeS3{}, "my-bucket", zerolog.Nop())

	records, err := loader.Load(context.Background(), "missing.json")

	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "s3://my-bucket/missing.json")
}

func TestS3Loader_Load_InvalidDocument(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{"bad.json": []byte("{")}}
	loader := newS3Loader(client, "my-bucket", zerolog.Nop())

	_, err := loader.Load(context.Background(), "bad.json")

	assert.ErrorIs(t, err, model.ErrDataFormat)
}

func TestFallbackLoader_S3Success(t *testing.T) {
	ctx := context.Background()
	want := []model.ProductRecord{testRecord(headphonesID)}

	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			assert.Equal(t, "catalog/products.json", location, "S3 key should have prefix")
			return want, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", zerolog.Nop())

	records, err := fallback.Load(ctx, "products.json")
	assert.NoError(t, err)
	assert.Equal(t, want, records)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	want := []model.ProductRecord{testRecord(laptopID)}

	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			assert.Equal(t, "products.json", location, "local file path should not have prefix")
			return want, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", zerolog.Nop())

	records, err := fallback.Load(ctx, "products.json")
	assert.NoError(t, err)
	assert.Equal(t, want, records)
}

func TestFallbackLoader_S3LoaderNil(t *testing.T) {
	called := false
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			called = true
			return nil, nil
		},
	}

	fallback := NewFallbackLoader(nil, fileLoader, "catalog/", zerolog.Nop())

	_, err := fallback.Load(context.Background(), "products.json")
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestFallbackLoader_BothFail(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			return nil, errors.New("S3 error")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
			return nil, model.NewSourceUnavailableError(location, errors.New("file not found"))
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", zerolog.Nop())

	records, err := fallback.Load(context.Background(), "products.json")
	assert.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFallbackLoader_PrefixHandling(t *testing.T) {
	tests := []struct {
		name       string
		s3Prefix   string
		location   string
		expectedS3 string
	}{
		{"prefix with trailing slash", "catalog/", "products.json", "catalog/products.json"},
		{"prefix without trailing slash", "catalog", "products.json", "catalogproducts.json"},
		{"empty prefix", "", "products.json", "products.json"},
		{"nested prefix", "data/catalog/prod/", "products.json", "data/catalog/prod/products.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s3Loader := &mockLoader{
				loadFunc: func(ctx context.Context, location string) ([]model.ProductRecord, error) {
					assert.Equal(t, tt.expectedS3, location)
					return nil, nil
				},
			}

			fallback := NewFallbackLoader(s3Loader, &mockLoader{}, tt.s3Prefix, zerolog.Nop())
			_, err := fallback.Load(context.Background(), tt.location)
			assert.NoError(t, err)
		})
	}
}
