// Package app wires the shared dependency container used by every command.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"bankroll/internal/datastore"
	"bankroll/internal/datastore/memstore"
	"bankroll/internal/datastore/redis_store"
	"bankroll/internal/interfaces"
	"bankroll/internal/pkg"
	"bankroll/internal/pkg/caching"
	"bankroll/internal/pkg/limiter"
	"bankroll/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	STORAGE_POSTGRES = "postgres"
	STORAGE_MEMORY   = "memory"
)

// backend is the single store instance behind every store contract.
type backend interface {
	interfaces.LedgerStore
	interfaces.DistributionStore
	interfaces.ConfigStore
}

// OptionalEnvs are read with defaults on top of the required keys.
var OptionalEnvs = map[string]string{
	"API_MODE":                    "production",
	"API_ORIGINS":                 "*",
	"STORAGE":                     STORAGE_POSTGRES,
	"PAYMENT_TAX_PERCENT":         "0",
	"WAGER_RATE_LIMIT_PER_MINUTE": "30",
	"ADMIN_API_KEY":               "",
	"ADMIN_CHAT_ID":               "",
	"JWT_SECRET":                  "",
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()

	for key, defaultValue := range OptionalEnvs {
		if _, ok := vs[key]; ok {
			continue
		}
		vs[key] = os.Getenv(key)
		if vs[key] == "" {
			vs[key] = defaultValue
		}
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*slog.Logger, error) {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		logger := do.MustInvoke[*slog.Logger](i)

		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))
		bunDB := bun.NewDB(sqldb, pgdialect.New())

		err := pkg.Retry(context.Background(), pkg.NewConnectRetrier(), pkg.CONNECT_ATTEMPTS, func(ctx context.Context) error {
			err := bunDB.PingContext(ctx)
			if err != nil {
				logger.Warn("postgres not ready", "error", err)
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return bunDB, nil
	})

	do.ProvideNamed(injector, "redis-db", redisProvider("CLUSTER_REDIS_DB", "REDIS_DB"))
	do.ProvideNamed(injector, "redis-cache", redisProvider("CLUSTER_REDIS_CACHE", "REDIS_CACHE"))
	do.ProvideNamed(injector, "redis-limiter", redisProvider("CLUSTER_REDIS_LIMITER", "REDIS_LIMITER"))
	do.ProvideNamed(injector, "redis-mutex", redisProvider("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX"))

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewRedisCache(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		return redsync.New(goredis.NewPool(dbRedis)), nil
	})

	do.ProvideNamed(injector, "store", func(i *do.Injector) (backend, error) {
		if vs["STORAGE"] == STORAGE_MEMORY {
			return memstore.New(), nil
		}

		bunDB, err := do.Invoke[*bun.DB](i)
		if err != nil {
			return nil, err
		}
		return datastore.NewPostgresStore(bunDB), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.LedgerStore, error) {
		return do.InvokeNamed[backend](i, "store")
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.DistributionStore, error) {
		return do.InvokeNamed[backend](i, "store")
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.ConfigStore, error) {
		return do.InvokeNamed[backend](i, "store")
	})

	do.Provide(injector, func(i *do.Injector) (*redis_store.Presence, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-db")
		if err != nil {
			return nil, err
		}
		return redis_store.NewPresence(dbRedis), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Presence, error) {
		return do.Invoke[*redis_store.Presence](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.PresenceTracker, error) {
		return do.Invoke[*redis_store.Presence](i)
	})

	do.Provide(injector, func(i *do.Injector) (*redis_store.EventQueue, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-db")
		if err != nil {
			return nil, err
		}
		return redis_store.NewEventQueue(dbRedis), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.EventPublisher, error) {
		return do.Invoke[*redis_store.EventQueue](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Random, error) {
		return pkg.NewLockedRand(0), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.Bot, error) {
		return services.NewBot(vs["BOT_TOKEN"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication(vs["JWT_SECRET"])
	})

	services.Provide(injector)

	return injector
}

func redisProvider(clusterKey, urlKey string) func(i *do.Injector) (redis.UniversalClient, error) {
	return func(i *do.Injector) (redis.UniversalClient, error) {
		clusterURL := os.Getenv(clusterKey)
		if clusterURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterURL)
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}

		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv(urlKey),
		})
	}
}
