package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/dictionary/internal/config"
	"github.com/heartmarshall/dictionary/pkg/dictionary"
	"github.com/heartmarshall/dictionary/pkg/dictionary/pgdict"
)

// BuildProvider registers one lazily built dictionary per configured entry.
// Dictionaries are constructed on first lookup. db may be nil when no
// database dictionary is configured.
func BuildProvider(cfg *config.Config, db pgdict.Querier, logger *slog.Logger) (*dictionary.Provider, error) {
	if cfg.HasDatabaseDictionaries() && db == nil {
		return nil, fmt.Errorf("build provider: database dictionaries need a connection: %w", dictionary.ErrInvalidConfig)
	}

	p := dictionary.NewProvider(dictionary.WithProviderLogger(logger))

	for _, dc := range cfg.Dictionaries {
		switch dc.Kind {
		case config.KindStatic:
			p.Register(dictionary.Named(dc.Name, func(context.Context) (dictionary.Dictionary, error) {
				return newStatic(dc), nil
			}))
		case config.KindDatabase:
			p.Register(dictionary.Named(dc.Name, func(context.Context) (dictionary.Dictionary, error) {
				return newDatabase(dc, db, logger)
			}))
		default:
			return nil, fmt.Errorf("build provider: dictionary %q: unknown kind %q: %w", dc.Name, dc.Kind, dictionary.ErrInvalidConfig)
		}
	}

	return p, nil
}

// newStatic builds a static dictionary from entries followed by bare keys.
func newStatic(dc config.DictionaryConfig) *dictionary.Static {
	defs := make([]dictionary.Definition, 0, len(dc.Entries)+len(dc.Keys))
	for _, e := range dc.Entries {
		defs = append(defs, dictionary.Definition{Key: e.Key, Label: e.Label, Meta: e.Meta})
	}
	for _, k := range dc.Keys {
		defs = append(defs, dictionary.Definition{Key: k})
	}
	return dictionary.NewStatic(defs)
}

func newDatabase(dc config.DictionaryConfig, db pgdict.Querier, logger *slog.Logger) (*pgdict.Dictionary, error) {
	kind, err := dictionary.ParseKeyKind(dc.KeyType)
	if err != nil {
		return nil, fmt.Errorf("dictionary %q: %w", dc.Name, err)
	}

	keyField := orDefault(dc.KeyField, "id")
	labelField := orDefault(dc.LabelField, "label")

	opts := []pgdict.Option{
		pgdict.WithName(dc.Name),
		pgdict.WithKeyField(keyField),
		pgdict.WithLabelField(labelField),
		pgdict.WithKeyKind(kind),
		pgdict.WithCacheTTL(dc.CacheTTL),
		pgdict.WithLogger(logger),
		pgdict.WithKeysQuery(selectFrom(dc, []string{keyField})),
	}
	if len(dc.SearchFields) > 0 {
		opts = append(opts, pgdict.WithSearchFields(dc.SearchFields...))
	}
	switch {
	case dc.Unpaginated:
		opts = append(opts, pgdict.WithPerPage(0))
	case dc.PerPage > 0:
		opts = append(opts, pgdict.WithPerPage(dc.PerPage))
	}

	columns := dc.Columns
	if len(columns) > 0 {
		columns = withColumns(columns, keyField, labelField)
	}

	return pgdict.New(db, selectFrom(dc, columns), opts...)
}

// selectFrom returns the base query for dc selecting columns ("*" when empty).
func selectFrom(dc config.DictionaryConfig, columns []string) pgdict.BaseQuery {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	return func() sq.SelectBuilder {
		q := sq.Select(columns...).From(dc.Table)
		if dc.Where != "" {
			q = q.Where(dc.Where)
		}
		if dc.OrderBy != "" {
			q = q.OrderBy(dc.OrderBy)
		}
		return q
	}
}

// withColumns appends the required columns missing from columns.
func withColumns(columns []string, required ...string) []string {
	out := slices.Clone(columns)
	for _, c := range required {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
