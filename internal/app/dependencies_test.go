package app

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

func TestInitRuntimeDependencies_Memory(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
	}, log.WithField("test", "memory-storage"))
	require.NoError(t, err)
	t.Cleanup(func() { deps.close(log.WithField("test", "memory-storage")) })

	require.NotNil(t, deps.productRepo)
	require.NotNil(t, deps.orderRepo)
	require.Nil(t, deps.cache)
	require.IsType(t, domain.NoopPublisher{}, deps.publisher)
	require.Empty(t, deps.checks)
}

func TestInitRuntimeDependencies_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverPostgres,
	}, log.WithField("test", "postgres-missing-dsn"))
	require.Error(t, err)
}

func TestInitRuntimeDependencies_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: "sqlite",
	}, log.WithField("test", "unsupported-driver"))
	require.ErrorContains(t, err, "unsupported storage driver")
}

func TestInitRuntimeDependencies_UnreachableRedisDisablesCache(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	deps, err := initRuntimeDependencies(ctx, Config{
		StorageDriver: StorageDriverMemory,
		RedisAddr:     "127.0.0.1:1",
	}, log.WithField("test", "redis-down"))
	require.NoError(t, err)
	require.Nil(t, deps.cache)
	require.NotContains(t, deps.checks, "redis")
}

func TestInitPublisher_WithoutBrokers(t *testing.T) {
	t.Parallel()

	publisher, closeFn := initPublisher(nil, "catalog.events", log.WithField("test", "kafka"))
	require.IsType(t, domain.NoopPublisher{}, publisher)
	require.Nil(t, closeFn)
}

func TestRuntimeDependencies_CloseInReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	deps := &runtimeDependencies{}
	for _, name := range []string{"postgres", "redis", "kafka"} {
		name := name
		deps.closers = append(deps.closers, namedCloser{name: name, close: func() error {
			order = append(order, name)
			return nil
		}})
	}

	deps.close(log.WithField("test", "close"))
	require.Equal(t, []string{"kafka", "redis", "postgres"}, order)
	require.Empty(t, deps.closers)
}
