package docstore

import (
	"context"
	"errors"
	"time"
)

// Fields is one document's payload.
type Fields map[string]any

type Doc struct {
	ID     string
	Fields Fields
}

// Filter matches documents whose field equals Value. A nil Value matches
// documents where the field is absent (used to find the open interval,
// which has no endedAt yet).
type Filter struct {
	Field string
	Value any
}

type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Store is the document-store contract the presence tracker writes through.
// Backed by Postgres in production and by Memory in tests.
type Store interface {
	Create(ctx context.Context, collection string, data Fields) (string, error)
	Query(ctx context.Context, collection string, q Query) ([]Doc, error)
	Update(ctx context.Context, collection, id string, partial Fields) error
	Delete(ctx context.Context, collection, id string) error
}

var ErrNotFound = errors.New("docstore: document not found")

type serverTimestamp struct{}

// ServerTimestamp is a sentinel field value replaced with the store's clock
// at the write boundary, so interval timestamps never depend on a device
// clock.
var ServerTimestamp = serverTimestamp{}

// TimeLayout is fixed-width UTC so stored timestamps order lexicographically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

func resolveTimestamps(data Fields, now func() time.Time) Fields {
	out := make(Fields, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = FormatTime(now())
			continue
		}
		out[k] = v
	}
	return out
}
