package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/health"
	"github.com/vladislavdragonenkov/catalog/internal/storage/memory"
	"github.com/vladislavdragonenkov/catalog/internal/storage/postgres"
	"github.com/vladislavdragonenkov/catalog/internal/storage/redis"
)

// runtimeDependencies — внешние зависимости, выбранные по конфигурации.
type runtimeDependencies struct {
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	cache       catalog.ProductCache
	publisher   domain.EventPublisher

	checks  map[string]check
	closers []namedCloser
}

type check struct {
	critical bool
	ping     health.PingFunc
}

type namedCloser struct {
	name  string
	close func() error
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	deps := &runtimeDependencies{checks: map[string]check{}}

	if err := deps.initStorage(ctx, cfg, logger); err != nil {
		deps.close(logger)
		return nil, err
	}
	deps.initCache(ctx, cfg, logger)

	publisher, closeFn := initPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	deps.publisher = publisher
	if closeFn != nil {
		deps.closers = append(deps.closers, namedCloser{name: "kafka producer", close: closeFn})
	}

	return deps, nil
}

func (d *runtimeDependencies) initStorage(ctx context.Context, cfg Config, logger *log.Entry) error {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		d.productRepo = memory.NewProductRepository()
		d.orderRepo = memory.NewOrderRepository()
		logger.Info("using in-memory storage")
		return nil
	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return fmt.Errorf("postgres storage requires a DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, namedCloser{name: "postgres", close: store.Close})

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			version, applied, err := store.MigrationStatus(ctx)
			if err == nil {
				logger.WithFields(log.Fields{"version": version, "applied": applied}).Info("postgres schema is up to date")
			}
		}

		d.productRepo = postgres.NewProductRepository(store)
		d.orderRepo = postgres.NewOrderRepository(store)
		d.checks["postgres"] = check{critical: true, ping: store.Ping}
		logger.Info("using postgres storage")
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// initCache подключает Redis, если адрес задан. Недоступный Redis не мешает старту.
func (d *runtimeDependencies) initCache(ctx context.Context, cfg Config, logger *log.Entry) {
	if cfg.RedisAddr == "" {
		return
	}

	cache, err := redis.NewProductCache(ctx, redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.RedisTTL,
	})
	if err != nil {
		logger.WithError(err).Warn("redis is unavailable, product cache disabled")
		return
	}

	d.cache = cache
	d.checks["redis"] = check{critical: false, ping: cache.Ping}
	d.closers = append(d.closers, namedCloser{name: "redis", close: cache.Close})
	logger.WithField("addr", cfg.RedisAddr).Info("product cache enabled")
}

// close освобождает ресурсы в обратном порядке.
func (d *runtimeDependencies) close(logger *log.Entry) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		c := d.closers[i]
		if err := c.close(); err != nil {
			logger.WithError(err).WithField("dependency", c.name).Warn("failed to close dependency")
		}
	}
	d.closers = nil
}
