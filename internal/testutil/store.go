package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/dpl/internal/store"
)

// SeededStore opens an in-memory SQLite store holding the YAML fixture.
// The store is closed when the test ends.
func SeededStore(t testing.TB, fixtureYAML string) *store.Store {
	t.Helper()

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f, err := store.ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	require.NoError(t, s.Seed(context.Background(), f))
	return s
}
