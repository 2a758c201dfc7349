package cli

import (
	"context"
	"fmt"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/config"
	"quiz-service/internal/infra/memory"
	"quiz-service/internal/infra/postgres"
	infraredis "quiz-service/internal/infra/redis"
	"quiz-service/internal/infra/sqlite"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStore builds the configured store, wrapped in the Redis cache when redis.addr is set.
// The returned cleanup releases every connection opened here.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (app.Store, func(), error) {
	var (
		store   app.Store
		closers []func()
		cleanup = func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverSQLite:
		sqliteStore, err := sqlite.NewStore(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = sqliteStore.Close() })
		store = sqliteStore
	case config.DriverPostgres:
		applied, err := postgres.Migrate(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", zap.Strings("migrations", applied))
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		store = postgres.NewStore(pool)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, cache will fall back to the store", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		closers = append(closers, func() { _ = client.Close() })
		store = infraredis.NewCachedStore(client, store, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}

	logger.Info("store ready", zap.String("driver", cfg.Store.Driver), zap.Bool("redis_cache", cfg.Redis.Addr != ""))
	return store, cleanup, nil
}
