// Package bootstrap builds the runtime pieces shared by the service mains.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/internal/db"
)

// OpenStore builds the store selected by cfg.Store. The returned close func
// releases its connections and is never nil.
func OpenStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (catalog.Store, func(), error) {
	store, closeFn, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, func() {}, err
	}

	if cfg.Seed {
		if err := catalog.Seed(ctx, store, catalog.DemoProducts()); err != nil {
			closeFn()
			return nil, func() {}, fmt.Errorf("seeding store: %w", err)
		}
		log.Info("store seeded")
	}
	return store, closeFn, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (catalog.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Info("using in-memory store")
		return catalog.NewMemStore(), func() {}, nil

	case config.DriverPostgres:
		if cfg.Migrate {
			if err := db.Migrate(cfg.DSN, log); err != nil {
				return nil, nil, err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres store")
		return catalog.NewPostgresStore(pool), pool.Close, nil

	case config.DriverGorm:
		if cfg.Migrate && cfg.Dialect == config.DialectPostgres {
			if err := db.Migrate(cfg.DSN, log); err != nil {
				return nil, nil, err
			}
		}
		gdb, err := db.OpenGorm(cfg.Dialect, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = sqlDB.Close() }

		store := catalog.NewGormStore(gdb)
		if cfg.Migrate && cfg.Dialect == config.DialectSQLite {
			if err := store.AutoMigrate(ctx); err != nil {
				closeFn()
				return nil, nil, fmt.Errorf("auto-migrating sqlite: %w", err)
			}
		}
		log.Info("using gorm store", zap.String("dialect", cfg.Dialect))
		return store, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
