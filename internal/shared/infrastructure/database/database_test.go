package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		url  string
		want Driver
	}{
		{"", DriverSQLite},
		{"  ", DriverSQLite},
		{"postgres://localhost/dailyease", DriverPostgres},
		{"postgresql://u:p@db:5432/dailyease?sslmode=disable", DriverPostgres},
		{"sqlite:///tmp/dailyease.db", DriverSQLite},
		{"file:test.db?cache=shared", DriverSQLite},
		{"/var/lib/dailyease/data.sqlite3", DriverSQLite},
		{"host=localhost dbname=dailyease", DriverPostgres},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDriver(tt.url))
		})
	}
}

func TestSQLitePathFromURL(t *testing.T) {
	assert.Equal(t, "/tmp/a.db", SQLitePathFromURL("sqlite:///tmp/a.db"))
	assert.Equal(t, "a.db", SQLitePathFromURL("a.db"))
}

func TestIsNoRows(t *testing.T) {
	assert.False(t, IsNoRows(nil))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: subscriptions.id (1555)")))
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		db, err := OpenSQLite(ctx, ":memory:")
		require.NoError(t, err)
		defer db.Close()

		_, err = db.ExecContext(ctx, "CREATE TABLE t (id INTEGER)")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, "INSERT INTO t VALUES (1)")
		require.NoError(t, err)

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("file creates directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "data.db")
		db, err := OpenSQLite(ctx, path)
		require.NoError(t, err)
		defer db.Close()

		var fk int
		require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := OpenSQLite(ctx, "")
		assert.Error(t, err)
	})

	t.Run("rejects shell metacharacters", func(t *testing.T) {
		_, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "data;rm.db"))
		assert.ErrorContains(t, err, "forbidden character")
	})
}
