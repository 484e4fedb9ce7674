package ports

import "context"

// KeyValueStore is the storage-adapter boundary: a string-keyed,
// string-valued device with no expiry support of its own. TTL and
// namespacing live above it, in the cache manager.
// Implementations should degrade gracefully (returning an error without
// crashing callers) so the cache can keep operating best-effort when
// the device is full or unavailable.
type KeyValueStore interface {
	// GetItem returns the raw value for key. ok=false if not present.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem stores value under key. May fail on quota exhaustion.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes the key; absence is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Keys lists every existing key that starts with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
