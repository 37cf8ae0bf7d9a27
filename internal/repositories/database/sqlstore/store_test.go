package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestStore migrates a fresh SQLite file and returns repositories over it.
func newTestStore(t *testing.T) (*database.DB, portsrepo.RepositoryProvider) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(database.DialectSQLite, database.SQLiteDSN(path), nil))

	db, err := database.OpenSQLite(context.Background(), path, true)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	return db, NewRepositoryProvider(db)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
