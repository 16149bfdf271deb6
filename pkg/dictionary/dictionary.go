package dictionary

import (
	"context"
	"strings"
	"unicode"
)

// Dictionary is a keyed set of labelled entries.
//
// Lookups report a missing or uncoercible key with ok == false and a nil
// error. A non-nil error always means the backing source failed.
type Dictionary interface {
	// CoerceKey converts key to this dictionary's key type.
	CoerceKey(key any) (any, bool)

	Has(ctx context.Context, key any) (bool, error)
	Label(ctx context.Context, key any) (string, bool, error)
	Meta(ctx context.Context, key any, metaKey string) (any, bool, error)
	Get(ctx context.Context, key any) (Value, bool, error)

	// All returns every entry in source order.
	All(ctx context.Context) ([]Value, error)
	// AllKeys returns every key in source order.
	AllKeys(ctx context.Context) ([]any, error)
}

// Searchable is a Dictionary that supports free-text search.
type Searchable interface {
	Dictionary
	Search(ctx context.Context, text string, opts SearchOptions) (*SearchResult, error)
}

// BatchGetter is implemented by dictionaries that can resolve many keys in
// one round trip. The result is keyed by coerced key and holds found
// entries only.
type BatchGetter interface {
	GetMany(ctx context.Context, keys []any) (map[any]Value, error)
}

// SearchOptions are per-call search parameters.
type SearchOptions struct {
	// Page is the 1-based page to return. Values below 1 select the first page.
	// Ignored by dictionaries that do not paginate.
	Page int

	// Params is passed unchanged to custom search hooks.
	Params map[string]any
}

// PageOrFirst returns Page clamped to at least 1.
func (o SearchOptions) PageOrFirst() int {
	return max(1, o.Page)
}

// SearchTerms splits search text into terms:
//   - trims leading/trailing whitespace
//   - splits on any run of Unicode whitespace
//
// An empty or blank text yields no terms, which matches everything.
func SearchTerms(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(text, unicode.IsSpace)
}
