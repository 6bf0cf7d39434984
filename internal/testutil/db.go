// Package testutil provides note database fixtures and styled-text builders
// for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/marginalia/internal/infrastructure/sqlite"
)

// NewTestDB creates a migrated in-memory note database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
