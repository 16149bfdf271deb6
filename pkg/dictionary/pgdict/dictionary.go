// Package pgdict implements a searchable dictionary backed by PostgreSQL rows.
//
// A Dictionary is defined by a base query (a squirrel SELECT builder) whose
// rows carry a key column, a label column and any number of extra columns
// that become the entry's metadata. Single-key lookups are cached per
// instance, including misses, until Forget/ForgetAll (or an optional TTL).
// All and Search refresh the cache for the rows they return but never evict
// entries for rows that disappeared.
//
// Base queries must leave the placeholder format at its default; the
// dictionary switches to PostgreSQL's $n placeholders when it runs them.
package pgdict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

// Querier is the subset of *pgxpool.Pool and pgx.Tx used by Dictionary.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BaseQuery returns a fresh SELECT for the dictionary's rows.
type BaseQuery func() sq.SelectBuilder

// Dictionary is a dictionary.Searchable over the rows of a base query.
// It is safe for concurrent use.
type Dictionary struct {
	db    Querier
	base  BaseQuery
	opts  options
	cache *lookupCache
	log   *slog.Logger
}

var (
	_ dictionary.Searchable  = (*Dictionary)(nil)
	_ dictionary.BatchGetter = (*Dictionary)(nil)
)

// New creates a Dictionary. Returns dictionary.ErrInvalidConfig when the
// querier or base query is missing or the field options are empty.
func New(db Querier, base BaseQuery, opts ...Option) (*Dictionary, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if db == nil {
		return nil, fmt.Errorf("pgdict %q: querier is required: %w", o.name, dictionary.ErrInvalidConfig)
	}
	if base == nil {
		return nil, fmt.Errorf("pgdict %q: base query is required: %w", o.name, dictionary.ErrInvalidConfig)
	}
	if o.keyField == "" {
		return nil, fmt.Errorf("pgdict %q: key field is required: %w", o.name, dictionary.ErrInvalidConfig)
	}
	if o.labelField == "" && o.labelFn == nil {
		return nil, fmt.Errorf("pgdict %q: label field or label func is required: %w", o.name, dictionary.ErrInvalidConfig)
	}
	if len(o.searchFields) == 0 && o.searchFn == nil {
		if o.labelField == "" {
			return nil, fmt.Errorf("pgdict %q: search fields are required with a label func: %w", o.name, dictionary.ErrInvalidConfig)
		}
		o.searchFields = []string{o.labelField}
	}
	if o.log == nil {
		o.log = slog.Default()
	}

	return &Dictionary{
		db:    db,
		base:  base,
		opts:  o,
		cache: newLookupCache(o.name, o.cacheTTL),
		log:   o.log.With("dictionary", o.name),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(db Querier, base BaseQuery, opts ...Option) *Dictionary {
	d, err := New(db, base, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the configured name.
func (d *Dictionary) Name() string { return d.opts.name }

// PerPage returns the search page size; zero or less means unpaginated.
func (d *Dictionary) PerPage() int { return d.opts.perPage }

// CoerceKey implements dictionary.Dictionary.
func (d *Dictionary) CoerceKey(key any) (any, bool) {
	return d.opts.keyKind.Coerce(key)
}

// ---------------------------------------------------------------------------
// Single-key lookups
// ---------------------------------------------------------------------------

// Get implements dictionary.Dictionary. The result, found or not, is cached.
func (d *Dictionary) Get(ctx context.Context, key any) (dictionary.Value, bool, error) {
	k, ok := d.CoerceKey(key)
	if !ok {
		return dictionary.Value{}, false, nil
	}

	if e, ok := d.cache.get(k); ok {
		return e.value, e.found, nil
	}

	rows, err := d.selectRows(ctx, d.applyKeyCriteria(d.base(), k).Limit(1))
	if err != nil {
		return dictionary.Value{}, false, fmt.Errorf("get %v: %w", k, err)
	}

	if len(rows) == 0 {
		d.log.DebugContext(ctx, "dictionary key not found", slog.Any("key", k))
		d.cache.setMissing(k)
		return dictionary.Value{}, false, nil
	}

	v := d.valueFromRow(k, rows[0])
	d.cache.setFound(k, v)
	return v, true, nil
}

// Has implements dictionary.Dictionary.
func (d *Dictionary) Has(ctx context.Context, key any) (bool, error) {
	_, ok, err := d.Get(ctx, key)
	return ok, err
}

// Label implements dictionary.Dictionary.
func (d *Dictionary) Label(ctx context.Context, key any) (string, bool, error) {
	v, ok, err := d.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return v.Label(), true, nil
}

// Meta implements dictionary.Dictionary.
func (d *Dictionary) Meta(ctx context.Context, key any, metaKey string) (any, bool, error) {
	v, ok, err := d.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	m, ok := v.MetaValue(metaKey)
	return m, ok, nil
}

// GetMany implements dictionary.BatchGetter. Uncached keys are fetched with
// a single IN query; keys without a row are cached as misses. Dictionaries
// with custom key criteria fall back to one Get per key.
func (d *Dictionary) GetMany(ctx context.Context, keys []any) (map[any]dictionary.Value, error) {
	out := make(map[any]dictionary.Value, len(keys))
	var pending []any
	seen := make(map[any]struct{}, len(keys))

	for _, key := range keys {
		k, ok := d.CoerceKey(key)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		if e, ok := d.cache.get(k); ok {
			if e.found {
				out[k] = e.value
			}
			continue
		}
		pending = append(pending, k)
	}

	if len(pending) == 0 {
		return out, nil
	}

	if d.opts.keyCriteria != nil {
		for _, k := range pending {
			v, ok, err := d.Get(ctx, k)
			if err != nil {
				return nil, err
			}
			if ok {
				out[k] = v
			}
		}
		return out, nil
	}

	rows, err := d.selectRows(ctx, d.base().Where(sq.Eq{d.opts.keyField: pending}))
	if err != nil {
		return nil, fmt.Errorf("get many (%d keys): %w", len(pending), err)
	}

	for _, row := range rows {
		k, ok := d.keyFromRow(row)
		if !ok {
			continue
		}
		v := d.valueFromRow(k, row)
		d.cache.setFound(k, v)
		out[k] = v
	}
	for _, k := range pending {
		if _, ok := out[k]; !ok {
			d.cache.setMissing(k)
		}
	}

	return out, nil
}

// Forget drops the cached lookup for key.
func (d *Dictionary) Forget(key any) {
	if k, ok := d.CoerceKey(key); ok {
		d.cache.forget(k)
	}
}

// ForgetAll drops every cached lookup.
func (d *Dictionary) ForgetAll() {
	d.cache.forgetAll()
}

// CacheLen returns the number of cached lookups, misses included.
func (d *Dictionary) CacheLen() int {
	return d.cache.len()
}

// ---------------------------------------------------------------------------
// Enumeration
// ---------------------------------------------------------------------------

// All implements dictionary.Dictionary. Every returned row refreshes the
// cache entry for its key.
func (d *Dictionary) All(ctx context.Context) ([]dictionary.Value, error) {
	rows, err := d.selectRows(ctx, d.base())
	if err != nil {
		return nil, fmt.Errorf("all: %w", err)
	}
	return d.valuesFromRows(rows), nil
}

// AllKeys implements dictionary.Dictionary.
func (d *Dictionary) AllKeys(ctx context.Context) ([]any, error) {
	q := d.base
	if d.opts.keysQuery != nil {
		q = d.opts.keysQuery
	}

	rows, err := d.selectRows(ctx, q())
	if err != nil {
		return nil, fmt.Errorf("all keys: %w", err)
	}

	keys := make([]any, len(rows))
	for i, row := range rows {
		keys[i], _ = d.keyFromRow(row)
	}
	return keys, nil
}

// ---------------------------------------------------------------------------
// Query helpers
// ---------------------------------------------------------------------------

func (d *Dictionary) applyKeyCriteria(q sq.SelectBuilder, key any) sq.SelectBuilder {
	if d.opts.keyCriteria != nil {
		return d.opts.keyCriteria(q, key)
	}
	return q.Where(sq.Eq{d.opts.keyField: key})
}

func (d *Dictionary) valuesFromRows(rows []Row) []dictionary.Value {
	values := make([]dictionary.Value, 0, len(rows))
	for _, row := range rows {
		k, coerced := d.keyFromRow(row)
		v := d.valueFromRow(k, row)
		if coerced {
			d.cache.setFound(k, v)
		}
		values = append(values, v)
	}
	return values
}

// selectRows runs q with $n placeholders and scans every row into a Row.
func (d *Dictionary) selectRows(ctx context.Context, q sq.SelectBuilder) ([]Row, error) {
	query, args, err := q.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	d.log.DebugContext(ctx, "dictionary query", slog.String("sql", query))

	var scanned []map[string]any
	if err := pgxscan.Select(ctx, d.db, &scanned, query, args...); err != nil {
		return nil, d.queryError(ctx, err)
	}

	rows := make([]Row, len(scanned))
	for i, m := range scanned {
		rows[i] = Row(m)
	}
	return rows, nil
}

// queryError logs data-source failures. Context errors pass through unlogged.
func (d *Dictionary) queryError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	d.log.ErrorContext(ctx, "dictionary query failed", slog.String("error", err.Error()))
	return err
}
