package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumicart/storefront-cache/internal/infrastructure/memstore"
)

func TestMemstoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	_, ok, err := s.GetItem(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "a", "1"))
	v, ok, err := s.GetItem(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	require.NoError(t, s.RemoveItem(ctx, "a"))
	_, ok, err = s.GetItem(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	// Removing again is not an error.
	require.NoError(t, s.RemoveItem(ctx, "a"))
}

func TestMemstoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.SetItem(ctx, "app_v2_a", "1"))
	require.NoError(t, s.SetItem(ctx, "app_v1_b", "2"))
	require.NoError(t, s.SetItem(ctx, "other_c", "3"))

	keys, err := s.Keys(ctx, "app_")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"app_v2_a", "app_v1_b"}, keys)
}
