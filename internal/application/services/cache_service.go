package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/core/ports"
	"github.com/lumicart/storefront-cache/internal/infrastructure/metrics"
)

// storedEntry is the persisted wire format. Field names and
// epoch-millisecond timestamps are fixed by the storage layout and must
// not change without bumping the cache version.
type storedEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Expiry    int64           `json:"expiry"`
}

// CacheService implements ports.CacheManager over a KeyValueStore.
// Physical keys follow <prefix><version>_<logicalKey>; entries whose
// physical key lacks the current version are never read, only purged.
type CacheService struct {
	store      ports.KeyValueStore
	prefix     string
	version    string
	defaultTTL time.Duration
	logger     *logrus.Logger
	now        func() time.Time
}

func NewCacheService(store ports.KeyValueStore, cfg *config.CacheConfig, logger *logrus.Logger) *CacheService {
	ttl := cfg.TTLMedium
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CacheService{
		store:      store,
		prefix:     cfg.Prefix,
		version:    cfg.Version,
		defaultTTL: ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Tests use it to simulate TTL
// expiry without sleeping.
func (s *CacheService) WithClock(now func() time.Time) *CacheService {
	s.now = now
	return s
}

func (s *CacheService) physicalKey(key string) string {
	return s.versionPrefix() + key
}

func (s *CacheService) versionPrefix() string {
	return s.prefix + s.version + "_"
}

// Set stores data under key. Serialization or storage failures are
// swallowed and logged: the cache stays a best-effort layer even when
// the device is full or unavailable.
func (s *CacheService) Set(ctx context.Context, key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	raw, err := json.Marshal(data)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("failed to serialize cache entry")
		}
		return
	}
	now := s.now()
	entry := storedEntry{
		Data:      raw,
		Timestamp: now.UnixMilli(),
		Expiry:    now.Add(ttl).UnixMilli(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("failed to encode cache entry")
		}
		return
	}
	if err := s.store.SetItem(ctx, s.physicalKey(key), string(encoded)); err != nil {
		metrics.RecordStoreError("set")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("cache write failed")
		}
	}
}

// Get returns the entry for key. Malformed stored entries read as
// absent, never as errors.
func (s *CacheService) Get(ctx context.Context, key string) (ports.Lookup, bool) {
	value, ok, err := s.store.GetItem(ctx, s.physicalKey(key))
	if err != nil {
		metrics.RecordStoreError("get")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("cache read failed")
		}
		return ports.Lookup{}, false
	}
	if !ok {
		return ports.Lookup{}, false
	}

	var entry storedEntry
	if err := json.Unmarshal([]byte(value), &entry); err != nil || len(entry.Data) == 0 {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).Debug("discarding malformed cache entry")
		}
		return ports.Lookup{}, false
	}

	expiresAt := time.UnixMilli(entry.Expiry)
	return ports.Lookup{
		Data:      entry.Data,
		StoredAt:  time.UnixMilli(entry.Timestamp),
		ExpiresAt: expiresAt,
		Stale:     s.now().After(expiresAt),
	}, true
}

// Remove deletes one entry; removing an absent key is not an error.
func (s *CacheService) Remove(ctx context.Context, key string) {
	if err := s.store.RemoveItem(ctx, s.physicalKey(key)); err != nil {
		metrics.RecordStoreError("remove")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("cache remove failed")
		}
	}
}

// ClearAll deletes every physical key under the application prefix,
// current version or not. Keys belonging to other applications sharing
// the device are untouched.
func (s *CacheService) ClearAll(ctx context.Context) {
	s.clearWhere(ctx, func(string) bool { return true })
}

// ClearOldVersions deletes prefix-owned keys carrying a different
// version token than the current one.
func (s *CacheService) ClearOldVersions(ctx context.Context) {
	current := s.versionPrefix()
	s.clearWhere(ctx, func(k string) bool { return !strings.HasPrefix(k, current) })
}

func (s *CacheService) clearWhere(ctx context.Context, match func(physicalKey string) bool) {
	keys, err := s.store.Keys(ctx, s.prefix)
	if err != nil {
		metrics.RecordStoreError("keys")
		if s.logger != nil {
			s.logger.WithError(err).Warn("cache key enumeration failed")
		}
		return
	}
	for _, k := range keys {
		if !match(k) {
			continue
		}
		if err := s.store.RemoveItem(ctx, k); err != nil {
			metrics.RecordStoreError("remove")
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"physical_key": k}).WithError(err).Warn("cache purge failed for key")
			}
		}
	}
}

// IsFresh reports whether key is present and not stale.
func (s *CacheService) IsFresh(ctx context.Context, key string) bool {
	lookup, ok := s.Get(ctx, key)
	return ok && !lookup.Stale
}

// LookupAs decodes a cache lookup into T. A decode failure reads as
// absence, matching the cache manager's malformed-entry policy.
func LookupAs[T any](ctx context.Context, c ports.CacheManager, key string) (*T, ports.Lookup, bool) {
	lookup, ok := c.Get(ctx, key)
	if !ok {
		return nil, ports.Lookup{}, false
	}
	var v T
	if err := json.Unmarshal(lookup.Data, &v); err != nil {
		return nil, ports.Lookup{}, false
	}
	return &v, lookup, true
}
