package catalog

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"item-compare/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalog files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-file-loader").Logger(),
	}
}

// Load reads a JSON catalog file and returns its records.
// Files ending in .gz are decompressed first.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.ProductRecord, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, model.NewSourceUnavailableError(filePath, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(filePath, ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
			return nil, model.NewDataFormatError("%s: invalid gzip stream: %v", filePath, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	records, err := DecodeRecords(r, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode catalog file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("records_loaded", len(records)).
		Msg("catalog file loaded successfully")

	return records, nil
}
