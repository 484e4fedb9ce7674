package ports

import (
	"context"
	"encoding/json"
	"time"
)

// Logical keys owned by the session/cart consumers. Everything else is
// derived per-resource via ResourceKey.
const (
	KeyUserProfile = "user_profile"
	KeyCart        = "cart"
	KeyCartCount   = "cart_count"
)

// Lookup is the result of a cache read. Stale entries still carry their
// data; the staleness flag is the contract the fetch wrapper's
// background-refresh decision depends on.
type Lookup struct {
	Data      json.RawMessage
	StoredAt  time.Time
	ExpiresAt time.Time
	Stale     bool
}

// CacheManager owns serialization, namespacing/versioning, TTL
// bookkeeping and stale/fresh classification on top of a KeyValueStore.
//
// Writes never fail the caller: the cache is a best-effort optimization
// and the system must function with an always-empty cache.
type CacheManager interface {
	// Set stores data under key with the given TTL. Non-positive TTL
	// selects the configured default. Serialization and storage errors
	// are swallowed and logged.
	Set(ctx context.Context, key string, data any, ttl time.Duration)
	// Get returns the entry for key. ok=false means absent (including
	// malformed stored entries). A returned entry may be stale; the
	// data is still served.
	Get(ctx context.Context, key string) (lookup Lookup, ok bool)
	// Remove deletes one entry; removing an absent key is not an error.
	Remove(ctx context.Context, key string)
	// ClearAll deletes every entry under the application prefix,
	// regardless of version. Used on logout so no residual
	// authenticated data survives for the next user.
	ClearAll(ctx context.Context)
	// ClearOldVersions deletes entries under the application prefix
	// whose version token differs from the current one. Run once at
	// startup to reclaim space from a prior cache schema.
	ClearOldVersions(ctx context.Context)
	// IsFresh reports whether key is present and not stale.
	IsFresh(ctx context.Context, key string) bool
}

// ResourceKey derives the logical cache key for a request: the endpoint
// path plus a canonical serialization of its query parameters. Two
// different parameter sets never map to the same key; equal sets always
// do (json.Marshal sorts map keys).
func ResourceKey(path string, query map[string]string) string {
	if query == nil {
		query = map[string]string{}
	}
	b, err := json.Marshal(query)
	if err != nil {
		// map[string]string cannot fail to marshal; keep the key total anyway.
		b = []byte("{}")
	}
	return path + "_" + string(b)
}
