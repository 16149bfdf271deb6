package pgdict

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

// Row is one result row keyed by column name (or alias).
type Row map[string]any

// String returns the column as a string. NULL and missing columns are "".
func (r Row) String(column string) string {
	return stringify(r[column])
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// keyFromRow returns the coerced key of row, or the raw column value when
// it cannot be coerced.
func (d *Dictionary) keyFromRow(row Row) (any, bool) {
	raw := row[d.opts.keyField]
	if k, ok := d.CoerceKey(raw); ok {
		return k, true
	}
	return raw, false
}

func (d *Dictionary) labelFromRow(row Row) string {
	if d.opts.labelFn != nil {
		return d.opts.labelFn(row)
	}
	return row.String(d.opts.labelField)
}

// metaFromRow returns every column except the key and label columns.
func (d *Dictionary) metaFromRow(row Row) map[string]any {
	meta := make(map[string]any, len(row))
	for col, v := range row {
		if col == d.opts.keyField || col == d.opts.labelField {
			continue
		}
		meta[col] = v
	}
	return meta
}

func (d *Dictionary) valueFromRow(key any, row Row) dictionary.Value {
	return dictionary.NewValue(key, d.labelFromRow(row), d.metaFromRow(row))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE pattern characters in s using the default
// PostgreSQL escape character (backslash).
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
