package core

// source.go defines how raw records enter the catalog.
//
// Two source shapes exist upstream: JSON documents (a list of objects, or an
// object wrapping the list) and table rows returned by a database driver.
// Each shape has one adapter that turns its native form into Record; the
// Normalizer never sees anything else.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Source fetches the raw records of a catalog.
type Source interface {
	// Name identifies the source in logs and status output.
	Name() string
	// Fetch returns every record. Failures are reported as *LoadError.
	Fetch(ctx context.Context) ([]Record, error)
}

// DefaultDocumentKey is the wrapper key looked up in object documents.
const DefaultDocumentKey = "games"

// DecodeDocument reads a JSON document holding either a list of records or
// an object that wraps the list under key. An object without key yields no
// records. Numbers are kept as json.Number.
func DecodeDocument(r io.Reader, key string) ([]Record, error) {
	if key == "" {
		key = DefaultDocumentKey
	}

	dec := json.NewDecoder(skipBOM(r))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("second JSON value")
		}
		return nil, fmt.Errorf("decode document: trailing data: %w", err)
	}

	switch t := doc.(type) {
	case []any:
		return recordsFromList(t)
	case map[string]any:
		inner, ok := t[key]
		if !ok || inner == nil {
			return []Record{}, nil
		}
		list, ok := inner.([]any)
		if !ok {
			return nil, fmt.Errorf("document key %q is %T, want a list", key, inner)
		}
		return recordsFromList(list)
	default:
		return nil, fmt.Errorf("document is %T, want a list or an object", doc)
	}
}

// DecodeDocumentBytes is DecodeDocument over an in-memory payload.
func DecodeDocumentBytes(data []byte, key string) ([]Record, error) {
	return DecodeDocument(bytes.NewReader(data), key)
}

func recordsFromList(list []any) ([]Record, error) {
	records := make([]Record, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document entry %d is %T, want an object", i, item)
		}
		records = append(records, Record(obj))
	}
	return records, nil
}

// RecordFromRow converts a database row (column name to driver value) into
// a Record. Driver-specific types are reduced to plain values the coercion
// helpers understand.
func RecordFromRow(row map[string]any) Record {
	rec := make(Record, len(row))
	for col, v := range row {
		rec[col] = rowValue(v)
	}
	return rec
}

func rowValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid {
			return nil
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case pgtype.Text:
		if !t.Valid {
			return nil
		}
		return t.String
	case [16]byte:
		return uuid.UUID(t).String()
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return string(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = rowValue(item)
		}
		return out
	default:
		return v
	}
}

// Fallback returns a Source that reads primary and, if that fails, secondary.
func Fallback(primary, secondary Source) Source {
	return &fallbackSource{primary: primary, secondary: secondary}
}

type fallbackSource struct {
	primary   Source
	secondary Source
}

func (f *fallbackSource) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *fallbackSource) Fetch(ctx context.Context) ([]Record, error) {
	records, err := f.primary.Fetch(ctx)
	if err == nil {
		return records, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	slog.Warn("primary source failed, trying fallback",
		"primary", f.primary.Name(),
		"fallback", f.secondary.Name(),
		"error", err,
	)

	records, fbErr := f.secondary.Fetch(ctx)
	if fbErr != nil {
		return nil, errors.Join(err, fbErr)
	}
	return records, nil
}
