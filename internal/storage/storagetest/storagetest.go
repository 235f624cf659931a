// Package storagetest opens throwaway migrated ledgers for tests.
package storagetest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-import/internal/storage"
	"github.com/carson-networks/ledger-import/internal/storage/migrations"
)

// New returns a migrated Storage backed by a file in t.TempDir().
func New(t *testing.T) *storage.Storage {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = migrations.Up(store.DB)
	require.NoError(t, err)

	return store
}
