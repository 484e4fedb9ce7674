package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumicart/storefront-cache/internal/infrastructure/filestore"
)

func TestFilestorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := filestore.Open(path, 0, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "app_v2_cart", `{"data":1}`))
	require.NoError(t, s.SetItem(ctx, "app_v2_profile", `{"data":2}`))
	require.NoError(t, s.RemoveItem(ctx, "app_v2_profile"))

	reopened, err := filestore.Open(path, 0, nil)
	require.NoError(t, err)

	v, ok, err := reopened.GetItem(ctx, "app_v2_cart")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"data":1}`, v)

	_, ok, err = reopened.GetItem(ctx, "app_v2_profile")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFilestoreQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := filestore.Open(path, 64, nil)
	require.NoError(t, err)

	big := make([]byte, 256)
	for i := range big {
		big[i] = 'x'
	}
	err = s.SetItem(ctx, "key", string(big))
	require.ErrorIs(t, err, filestore.ErrQuotaExceeded)

	// The failed write must not leave a partial entry behind.
	_, ok, err := s.GetItem(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFilestoreDiscardsCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	s, err := filestore.Open(path, 0, nil)
	require.NoError(t, err)

	_, ok, err := s.GetItem(ctx, "anything")
	require.NoError(t, err)
	require.False(t, ok)

	// And the store is writable afterwards.
	require.NoError(t, s.SetItem(ctx, "k", "v"))
}

func TestFilestoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := filestore.Open(path, 0, nil)
	require.NoError(t, err)

	require.NoError(t, s.SetItem(ctx, "app_v2_a", "1"))
	require.NoError(t, s.SetItem(ctx, "other_b", "2"))

	keys, err := s.Keys(ctx, "app_")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"app_v2_a"}, keys)
}
