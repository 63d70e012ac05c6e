package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'UTC'`, quoteLiteral("UTC"))
	assert.Equal(t, `'O''Brien'`, quoteLiteral("O'Brien"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "nope")
	t.Setenv("DB_MIGRATE", "")
	cfg := ConfigFromEnv()
	assert.Contains(t, cfg.DSN, "/bookmarks")
	assert.Equal(t, 5, cfg.MaxConns)
	assert.True(t, cfg.Migrate)

	t.Setenv("DATABASE_MAX_CONNS", "12")
	t.Setenv("DB_MIGRATE", "0")
	cfg = ConfigFromEnv()
	assert.Equal(t, 12, cfg.MaxConns)
	assert.False(t, cfg.Migrate)
}

func TestMigrate(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var dir string
	gooseUp = func(_ context.Context, _ *sql.DB, d string) error {
		dir = d
		entries, err := migrations.ReadDir(d)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		return nil
	}
	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, "migrations", dir)

	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("boom") }
	assert.ErrorContains(t, Migrate(context.Background(), nil), "boom")
}
