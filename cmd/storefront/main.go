package main

import (
	"context"
	"log"

	"github.com/sirupsen/logrus"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/application/services"
	"github.com/lumicart/storefront-cache/internal/core/domain/account"
	"github.com/lumicart/storefront-cache/internal/core/domain/catalog"
	"github.com/lumicart/storefront-cache/internal/core/ports"
	"github.com/lumicart/storefront-cache/internal/infrastructure/filestore"
	"github.com/lumicart/storefront-cache/internal/infrastructure/health"
	"github.com/lumicart/storefront-cache/internal/infrastructure/httpapi"
	"github.com/lumicart/storefront-cache/internal/infrastructure/memstore"
	"github.com/lumicart/storefront-cache/internal/infrastructure/pgstore"
	"github.com/lumicart/storefront-cache/internal/infrastructure/redisstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithField("backend", cfg.Store.Backend).Info("Starting storefront client...")

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open key-value store: ", err)
	}
	defer cleanup()

	// Credential store shares the device with the cache but lives
	// outside the versioned namespace.
	creds := services.NewCredentialStore(store, &cfg.Cache, logger)

	// API client reads the bearer token lazily so login/logout take
	// effect without rewiring.
	api := httpapi.New(&cfg.API, func() string {
		token, _ := creds.Token(context.Background())
		return token
	}, logger)

	cache := services.NewCacheService(store, &cfg.Cache, logger)
	client := services.NewCachedClient(cache, api, logger)
	session := services.NewSessionService(creds, cache, api, &cfg.Cache, logger)
	catalogSvc := services.NewCatalogService(client, &cfg.Cache, logger)
	cartSvc := services.NewCartService(client, cache, api, &cfg.Cache, logger)

	// One-time startup: purge foreign-version entries, drop an already
	// expired credential before any hydration.
	session.Bootstrap(ctx)

	profile, err := session.Hydrate(ctx)
	switch {
	case err != nil:
		logger.WithError(err).Warn("Session hydration failed")
	case profile != nil:
		logger.WithFields(logrus.Fields{"email": profile.Email, "state": session.State()}).Info("Session hydrated")
	default:
		logger.Info("No stored session, browsing anonymously")
	}

	list, fromCache, err := catalogSvc.List(ctx, catalog.ListFilter{PageSize: 20})
	if err != nil {
		logger.Fatal("Failed to load products: ", err)
	}
	logger.WithFields(logrus.Fields{"count": len(list.Products), "from_cache": fromCache}).Info("Loaded product listing")

	if session.State() == account.StateAuthenticatedCached {
		count, err := cartSvc.Count(ctx)
		if err != nil {
			logger.WithError(err).Warn("Failed to load cart count")
		} else {
			logger.WithField("items", count).Info("Cart loaded")
		}
	}
}

// openStore picks the key-value backend from config and verifies it is
// reachable before the cache goes live on it.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (ports.KeyValueStore, func(), error) {
	noop := func() {}
	switch cfg.Store.Backend {
	case "memory":
		return memstore.New(), noop, nil

	case "file":
		s, err := filestore.Open(cfg.Store.FilePath, cfg.Store.MaxBytes, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case "redis":
		client, err := redisstore.NewClient(&cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		checker := health.NewRedisStoreHealthChecker(client)
		if err := checker.Check(ctx); err != nil {
			client.Close()
			return nil, noop, err
		}
		return redisstore.New(client), func() { client.Close() }, nil

	case "postgres":
		s, err := pgstore.Open(&cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := s.Migrate("./migrations"); err != nil {
			logger.WithError(err).Warn("Failed to run migrations")
		}
		checker := health.NewPgStoreHealthChecker(s)
		if err := checker.Check(ctx); err != nil {
			s.Close()
			return nil, noop, err
		}
		return s, func() { s.Close() }, nil

	default:
		logger.WithField("backend", cfg.Store.Backend).Warn("Unknown store backend, falling back to memory")
		return memstore.New(), noop, nil
	}
}
