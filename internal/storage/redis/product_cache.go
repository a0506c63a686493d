// Package redis хранит кэш чтения товаров в Redis в виде JSON-значений с TTL.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

const (
	defaultKeyPrefix = "catalog:product:"
	defaultTTL       = 5 * time.Minute
)

// Config задаёт подключение и политику хранения кэша.
type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// ProductCache реализует catalog.ProductCache поверх Redis.
type ProductCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *log.Entry
}

// NewProductCache создаёт клиента и проверяет соединение.
func NewProductCache(ctx context.Context, cfg Config) (*ProductCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	cache := newProductCache(client, cfg)
	if err := cache.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return cache, nil
}

func newProductCache(client goredis.UniversalClient, cfg Config) *ProductCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &ProductCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithField("component", "product-cache"),
	}
}

// Ping проверяет доступность Redis.
func (c *ProductCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// GetProducts читает товары одной командой MGET. Промахи и битые значения пропускаются.
func (c *ProductCache) GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := c.keys(ids)
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	var stale []string
	for i, raw := range values {
		product, ok, err := decodeProduct(raw)
		if err != nil {
			c.logger.WithError(err).WithField("key", keys[i]).Warn("dropping undecodable cache entry")
			stale = append(stale, keys[i])
			continue
		}
		if !ok {
			continue
		}
		if product.ID != ids[i] {
			c.logger.WithFields(log.Fields{"key": keys[i], "product_id": product.ID}).Warn("cache id mismatch")
			stale = append(stale, keys[i])
			continue
		}
		result[ids[i]] = product
	}

	if len(stale) > 0 {
		if err := c.client.Del(ctx, stale...).Err(); err != nil {
			c.logger.WithError(err).Warn("failed to drop stale cache entries")
		}
	}
	return result, nil
}

// SetProducts кладёт товары пайплайном с общим TTL.
func (c *ProductCache) SetProducts(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, product := range products {
		data, err := json.Marshal(product)
		if err != nil {
			c.logger.WithError(err).WithField("product_id", product.ID).Warn("failed to marshal product for cache")
			continue
		}
		pipe.Set(ctx, c.key(product.ID), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline set: %w", err)
	}
	return nil
}

// DeleteProducts инвалидирует записи.
func (c *ProductCache) DeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, c.keys(ids)...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close закрывает клиента.
func (c *ProductCache) Close() error {
	return c.client.Close()
}

func (c *ProductCache) key(id string) string {
	return c.prefix + id
}

func (c *ProductCache) keys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	return keys
}

// decodeProduct разбирает значение из MGET. nil означает промах.
func decodeProduct(raw any) (domain.Product, bool, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return domain.Product{}, false, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return domain.Product{}, false, fmt.Errorf("unexpected cache value type %T", raw)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return domain.Product{}, false, fmt.Errorf("unmarshal cached product: %w", err)
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	return product, true, nil
}
