package pgdict

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

// Search implements dictionary.Searchable.
//
// With pagination enabled the result carries the total match count and
// holds the requested page (pages below 1 select the first page, pages past
// the last one are empty). Without pagination every match is returned. Returned rows refresh the cache.
func (d *Dictionary) Search(ctx context.Context, text string, opts dictionary.SearchOptions) (*dictionary.SearchResult, error) {
	q := d.applySearchCriteria(d.base(), text, opts)
	result := dictionary.NewSearchResult()

	if d.opts.perPage > 0 {
		page := opts.PageOrFirst()

		total, err := d.count(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", text, err)
		}
		result.SetPaginated(page, d.opts.perPage, total)

		// Pages past the end are empty; their offset may not fit a bigint.
		if page > result.NumPages() {
			d.log.DebugContext(ctx, "dictionary search past last page",
				slog.String("text", text),
				slog.Int("page", page),
				slog.Int("total", total),
			)
			return result, nil
		}

		q = q.Limit(uint64(d.opts.perPage)).Offset(uint64((page - 1) * d.opts.perPage))
	}

	rows, err := d.selectRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	result.SetValues(d.valuesFromRows(rows))

	d.log.DebugContext(ctx, "dictionary search",
		slog.String("text", text),
		slog.Int("page", result.Page()),
		slog.Int("returned", result.Len()),
		slog.Int("total", result.Total()),
	)

	return result, nil
}

func (d *Dictionary) applySearchCriteria(q sq.SelectBuilder, text string, opts dictionary.SearchOptions) sq.SelectBuilder {
	if d.opts.searchFn != nil {
		return d.opts.searchFn(q, text, opts)
	}
	return LikeSearch(q, d.opts.searchFields, text)
}

// LikeSearch restricts q to rows matching every whitespace-separated term
// of text. A term matches when at least one of fields contains it,
// case-insensitively (ILIKE). LIKE metacharacters in terms match literally.
// Blank text leaves q unchanged. Fields must be text-typed expressions;
// cast others, e.g. "code::text".
func LikeSearch(q sq.SelectBuilder, fields []string, text string) sq.SelectBuilder {
	if len(fields) == 0 {
		return q
	}
	for _, term := range dictionary.SearchTerms(text) {
		pattern := "%" + EscapeLike(term) + "%"
		or := make(sq.Or, 0, len(fields))
		for _, f := range fields {
			or = append(or, sq.ILike{f: pattern})
		}
		q = q.Where(or)
	}
	return q
}

// count returns the number of rows q would return.
func (d *Dictionary) count(ctx context.Context, q sq.SelectBuilder) (int, error) {
	query, args, err := sq.Select("count(*)").
		FromSelect(q, "q").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, d.db, &total, query, args...); err != nil {
		return 0, d.queryError(ctx, fmt.Errorf("count: %w", err))
	}
	return int(total), nil
}
