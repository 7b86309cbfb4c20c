package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"item-compare/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of the S3 client used by the loader.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for catalog documents stored in AWS S3.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based catalog loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "catalog-s3-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return newS3Loader(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Loader(client objectGetter, bucket string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Load reads a catalog document from S3. The key is the full object key,
// prefix included. Keys ending in .gz are decompressed first.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.ProductRecord, error) {
	location := fmt.Sprintf("s3://%s/%s", l.bucket, key)

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading catalog from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, model.NewSourceUnavailableError(location, err)
	}
	defer result.Body.Close()

	var r io.Reader = result.Body
	if strings.HasSuffix(key, ".gz") {
		gzipReader, err := gzip.NewReader(result.Body)
		if err != nil {
			l.logger.Error().
				Err(err).
				Str("bucket", l.bucket).
				Str("key", key).
				Msg("failed to create gzip reader")
			return nil, model.NewDataFormatError("%s: invalid gzip stream: %v", location, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	records, err := DecodeRecords(r, location)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("records_loaded", len(records)).
		Msg("catalog loaded from S3")

	return records, nil
}

// fallbackLoader tries S3 first, then falls back to the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries S3 first, then falls back to
// the local file system. If s3Loader is nil, only the file loader is used.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		logger:     logger.With().Str("component", "catalog-fallback-loader").Logger(),
	}
}

// Load prepends the S3 prefix to location for the S3 attempt and uses
// location as-is for the local file system.
func (l *fallbackLoader) Load(ctx context.Context, location string) ([]model.ProductRecord, error) {
	if l.s3Loader != nil {
		s3Key := l.s3Prefix + location

		records, err := l.s3Loader.Load(ctx, s3Key)
		if err == nil {
			return records, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Str("local_fallback", location).
			Msg("failed to load from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, location)
}
