package credstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	require.True(t, tableExists(t, db, "credentials"))
	require.True(t, tableExists(t, db, "goose_db_version"))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "creds.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string]string{"access": "A1", "refresh": "R1", "userId": "7"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "refresh")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "R1", v)
}

func TestSQLiteStore_ErrorsCarryKey(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "creds.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(ctx, "access")
	require.ErrorContains(t, err, "failed to get credential[access]")

	err = s.Delete(ctx, "refresh")
	require.ErrorContains(t, err, "failed to delete credential[refresh]")
}

func TestOpenSQLite_BadPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
}
