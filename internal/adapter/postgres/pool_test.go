package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/dictionary/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/dictionary/internal/config"
)

func TestNewPool_EmptyDSN(t *testing.T) {
	_, err := postgres.NewPool(context.Background(), config.DatabaseConfig{})
	assert.Error(t, err)
}

func TestNewPool_BadDSN(t *testing.T) {
	_, err := postgres.NewPool(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz"})
	assert.Error(t, err)
}

func TestNewPool(t *testing.T) {
	testhelper.SetupTestDB(t)

	pool, err := postgres.NewPool(context.Background(), config.DatabaseConfig{
		DSN:      testhelper.DSN(t),
		MaxConns: 2,
	})
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, int32(2), pool.Config().MaxConns)

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM countries").Scan(&n))
	assert.Equal(t, 6, n)
}
