package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dictionary/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

const databaseYAML = `
database:
  dsn: %q
log:
  level: "error"
dictionaries:
  - name: countries
    kind: database
    table: countries
    columns: [name, continent]
    where: active
    order_by: name
    key_field: code
    label_field: name
    key_type: string
    search_fields: [name, continent]
    per_page: 2
`

func TestOpen_Database(t *testing.T) {
	testhelper.SetupTestDB(t)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(databaseYAML, testhelper.DSN(t))), 0o644))

	ctx := context.Background()
	a, err := Open(ctx, path)
	require.NoError(t, err)
	defer a.Close()

	s, err := a.Provider.Searchable(ctx, "countries")
	require.NoError(t, err)

	res, err := s.Search(ctx, "europe", dictionary.SearchOptions{Page: 1})
	require.NoError(t, err)
	assert.True(t, res.Paginated())
	assert.Equal(t, 2, res.Total())
	assert.False(t, res.HasMore())

	label, ok, err := s.Label(ctx, "JP")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Japan", label)

	_, ok, err = s.Get(ctx, "YU")
	require.NoError(t, err)
	assert.False(t, ok, "inactive rows are filtered by the where clause")
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
