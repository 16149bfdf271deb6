package pgdict

import (
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

const (
	defaultName       = "default"
	defaultKeyField   = "id"
	defaultLabelField = "label"
	defaultPerPage    = 10
)

// LabelFunc computes a label from a row.
type LabelFunc func(row Row) string

// SearchFunc applies search criteria for text to q.
type SearchFunc func(q sq.SelectBuilder, text string, opts dictionary.SearchOptions) sq.SelectBuilder

// KeyCriteriaFunc restricts q to the row for the coerced key.
type KeyCriteriaFunc func(q sq.SelectBuilder, key any) sq.SelectBuilder

type options struct {
	name         string
	keyField     string
	labelField   string
	labelFn      LabelFunc
	keyKind      dictionary.KeyKind
	perPage      int
	searchFields []string
	searchFn     SearchFunc
	keysQuery    BaseQuery
	keyCriteria  KeyCriteriaFunc
	cacheTTL     time.Duration
	log          *slog.Logger
}

func defaultOptions() options {
	return options{
		name:       defaultName,
		keyField:   defaultKeyField,
		labelField: defaultLabelField,
		keyKind:    dictionary.KeyInt,
		perPage:    defaultPerPage,
		log:        slog.Default(),
	}
}

// Option configures a Dictionary.
type Option func(*options)

// WithName sets the name used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithKeyField sets the column holding the key. Default "id".
func WithKeyField(field string) Option {
	return func(o *options) { o.keyField = field }
}

// WithLabelField sets the column holding the label. Default "label".
// The column is excluded from the metadata.
func WithLabelField(field string) Option {
	return func(o *options) { o.labelField = field }
}

// WithLabelFunc computes labels from whole rows instead of a single column.
func WithLabelFunc(fn LabelFunc) Option {
	return func(o *options) { o.labelFn = fn }
}

// WithKeyKind sets the key type. Default dictionary.KeyInt.
func WithKeyKind(kind dictionary.KeyKind) Option {
	return func(o *options) { o.keyKind = kind }
}

// WithStringKey is shorthand for WithKeyKind(dictionary.KeyString).
func WithStringKey() Option {
	return WithKeyKind(dictionary.KeyString)
}

// WithPerPage sets the search page size. Zero or a negative value disables
// pagination: searches return every match. Default 10.
func WithPerPage(n int) Option {
	return func(o *options) { o.perPage = n }
}

// WithSearchFields sets the columns matched by the default search.
// Defaults to the label field.
func WithSearchFields(fields ...string) Option {
	return func(o *options) { o.searchFields = append([]string(nil), fields...) }
}

// WithSearchFunc replaces the default search criteria.
func WithSearchFunc(fn SearchFunc) Option {
	return func(o *options) { o.searchFn = fn }
}

// WithKeysQuery sets the query used by AllKeys. Defaults to the base query.
func WithKeysQuery(fn BaseQuery) Option {
	return func(o *options) { o.keysQuery = fn }
}

// WithKeyCriteria replaces the default "key_field = key" restriction.
func WithKeyCriteria(fn KeyCriteriaFunc) Option {
	return func(o *options) { o.keyCriteria = fn }
}

// WithCacheTTL expires cached lookups after ttl. Zero (the default) keeps
// them until Forget or ForgetAll.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) { o.cacheTTL = ttl }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}
