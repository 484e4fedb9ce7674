package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/core/ports"
)

// credentialStore keeps the bearer token in the shared key-value device
// but outside the cache namespace: ClearAll and ClearOldVersions sweep
// every key under the cache prefix, and the credential must survive
// both (its deletion is a separate, explicit session transition).
type credentialStore struct {
	store  ports.KeyValueStore
	key    string
	logger *logrus.Logger
}

func NewCredentialStore(store ports.KeyValueStore, cfg *config.CacheConfig, logger *logrus.Logger) ports.CredentialStore {
	// "lumicart_" -> "lumicart.auth_token", which does not share the
	// cache prefix and so is invisible to the cache sweeps.
	app := strings.TrimRight(cfg.Prefix, "_")
	return &credentialStore{
		store:  store,
		key:    app + ".auth_token",
		logger: logger,
	}
}

func (c *credentialStore) Token(ctx context.Context) (string, bool) {
	value, ok, err := c.store.GetItem(ctx, c.key)
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).Warn("failed to read stored credential")
		}
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (c *credentialStore) SetToken(ctx context.Context, token string) error {
	return c.store.SetItem(ctx, c.key, token)
}

func (c *credentialStore) ClearToken(ctx context.Context) error {
	return c.store.RemoveItem(ctx, c.key)
}
