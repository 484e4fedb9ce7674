package redisstore

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Store implements the key-value store boundary on Redis, for
// deployments where the storefront client state lives server-side
// (e.g. rendered sessions sharing one device per user).
//
// Entries are stored without Redis-level expiry: TTL bookkeeping is the
// cache manager's job and lives inside the value.
type Store struct {
	r redis.Cmdable
}

func New(r redis.Cmdable) *Store {
	return &Store{r: r}
}

func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.r.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	return s.r.Set(ctx, key, value, 0).Err()
}

func (s *Store) RemoveItem(ctx context.Context, key string) error {
	return s.r.Del(ctx, key).Err()
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.r.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
