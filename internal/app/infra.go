// Package app wires the data layer shared by the API server and the admin CLI
package app

import (
	"context"
	"fmt"

	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/database"
	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// Infrastructure is the opened data layer
type Infrastructure struct {
	Cache  *cache.Cache
	Remote *remote.Client
	Store  *store.Store

	closers []func() error
}

// Open builds the local cache, the remote mirror client and the store. A
// remote that fails to open is logged and replaced by a disconnected client
// so the store runs cache-only.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Infrastructure, error) {
	infra := &Infrastructure{}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	infra.closers = append(infra.closers, backend.Close)

	infra.Cache = cache.New(backend, cache.Options{
		Namespace:        cfg.Local.Namespace,
		MaxDocumentBytes: cfg.Local.MaxDocumentBytes,
	}, logger, m)

	infra.Remote = remote.NewDisconnectedClient(logger)
	if cfg.Remote.Enabled {
		db, err := database.NewRemoteDatabase(&cfg.Remote)
		if err != nil {
			logger.Warn("Remote mirror unavailable, running cache-only", zap.Error(err))
		} else {
			infra.Remote = remote.NewClient(db, cfg.Remote.ProbeTimeoutDuration(), logger, m)
			infra.closers = append(infra.closers, func() error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			})
		}
	} else {
		logger.Info("Remote mirror disabled, running cache-only")
	}

	infra.Store = store.New(infra.Cache, infra.Remote, logger)

	logger.Info("Data layer initialized",
		zap.String("cache_backend", cfg.Local.Backend),
		zap.Bool("remote_connected", infra.Remote.Connected()),
	)
	return infra, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (cache.Backend, error) {
	switch cfg.Local.Backend {
	case "sqlite", "":
		db, err := database.NewLocalDatabase(&cfg.Local)
		if err != nil {
			return nil, err
		}
		return cache.NewSQLiteBackend(db)
	case "redis":
		return cache.NewRedisBackend(ctx, &cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Local.Backend)
	}
}

// Close releases the cache backend and the remote connection
func (i *Infrastructure) Close() error {
	var first error
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
