package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrazmi/todokeeper/app/todokeeper/config"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/stores/taskscachestore"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/todokeeper/infrastructure/postgresdb"
	"github.com/jrazmi/todokeeper/infrastructure/rediscache"
	"github.com/jrazmi/todokeeper/infrastructure/sqlitedb"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

// storage is the task store selected by configuration plus whatever must be
// closed on shutdown.
type storage struct {
	storer  tasksrepo.Storer
	cache   *rediscache.Cache
	closers []func() error
}

func (s *storage) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// openStorage connects the configured driver, optionally migrates it, and
// wraps it in the Redis cache when one is configured.
func openStorage(ctx context.Context, cfg config.Todokeeper, log *logger.Logger, migrate bool) (*storage, error) {
	st := &storage{}

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgresdb.New(cfg.Postgres, postgresdb.WithLogger(log.Logger))
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		st.closers = append(st.closers, func() error { pool.Close(); return nil })

		if migrate {
			if err := postgresdb.Migrate(ctx, pool, log.Logger); err != nil {
				_ = st.close()
				return nil, err
			}
		}
		st.storer = taskspgxstore.NewStore(log, pool)

	default:
		db, err := sqlitedb.New(cfg.SQLite, log.Logger)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() error { return sqlitedb.Close(db) })

		if migrate {
			if err := sqlitedb.Migrate(ctx, db, log.Logger); err != nil {
				_ = st.close()
				return nil, err
			}
		}
		st.storer = taskssqlitestore.NewStore(log, db)
	}

	if cfg.Redis.Enabled() {
		cache, err := rediscache.New(cfg.Redis)
		if err != nil {
			_ = st.close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		st.closers = append(st.closers, cache.Close)
		st.cache = cache
		st.storer = taskscachestore.NewStore(log, st.storer, cache)
		log.Info("startup", "status", "task cache enabled", "addr", cfg.Redis.Addr)
	}

	return st, nil
}
