package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"item-compare/internal/model"
)

// Loader reads raw product records from a catalog source.
type Loader interface {
	// Load reads the records stored at location. A source that cannot be
	// reached yields an ErrSourceUnavailable error; content that cannot be
	// decoded yields an ErrDataFormat error.
	Load(ctx context.Context, location string) ([]model.ProductRecord, error)
}

// document is the reference catalog layout: {"products": [...]}.
type document struct {
	Products *[]json.RawMessage `json:"products"`
}

// DecodeRecords parses a catalog document. Both {"products": [...]} and a
// bare JSON array are accepted.
func DecodeRecords(r io.Reader, location string) ([]model.ProductRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewSourceUnavailableError(location, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, model.NewDataFormatError("%s: empty document", location)
	}

	var raw []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, model.NewDataFormatError("%s: invalid JSON: %v", location, err)
		}
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, model.NewDataFormatError("%s: invalid JSON: %v", location, err)
		}
		if doc.Products == nil {
			return nil, model.NewDataFormatError("%s: expected {\"products\": [...]}", location)
		}
		raw = *doc.Products
	default:
		return nil, model.NewDataFormatError("%s: expected a JSON object or array", location)
	}

	records := make([]model.ProductRecord, 0, len(raw))
	for i, item := range raw {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, model.NewDataFormatError("%s: record %d: %v", location, i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeRecord(item json.RawMessage) (model.ProductRecord, error) {
	var rec model.ProductRecord

	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}

	return rec, nil
}
