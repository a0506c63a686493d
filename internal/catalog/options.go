// Package catalog реализует хранилища товаров и заказов поверх абстрактного
// persistence-хэндла: пагинацию, композицию фильтров и разворачивание ссылок
// заказа на товары.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/metrics"
)

// IDGenerator выдаёт идентификаторы новых записей.
type IDGenerator func() (string, error)

// NewUUIDv7 — генератор по умолчанию. UUIDv7 монотонен во времени, поэтому
// сортировка по ID совпадает с порядком создания.
func NewUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type storeOptions struct {
	logger    *log.Entry
	metrics   *metrics.StoreMetrics
	publisher domain.EventPublisher
	cache     ProductCache
	newID     IDGenerator
	now       func() time.Time
}

// Option настраивает ProductStore и OrderStore.
type Option func(*storeOptions)

// WithLogger задаёт logger хранилища.
func WithLogger(logger *log.Entry) Option {
	return func(opts *storeOptions) {
		opts.logger = logger
	}
}

// WithMetrics включает prometheus-метрики операций.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(opts *storeOptions) {
		opts.metrics = m
	}
}

// WithPublisher задаёт publisher событий жизненного цикла.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(opts *storeOptions) {
		opts.publisher = publisher
	}
}

// WithCache включает кэш чтения товаров.
func WithCache(cache ProductCache) Option {
	return func(opts *storeOptions) {
		opts.cache = cache
	}
}

// WithIDGenerator подменяет генератор идентификаторов (используется в тестах).
func WithIDGenerator(gen IDGenerator) Option {
	return func(opts *storeOptions) {
		opts.newID = gen
	}
}

func buildOptions(component string, options []Option) storeOptions {
	opts := storeOptions{
		publisher: domain.NoopPublisher{},
		cache:     noopCache{},
		newID:     NewUUIDv7,
		now:       time.Now,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.logger == nil {
		opts.logger = log.WithField("component", component)
	}
	if opts.publisher == nil {
		opts.publisher = domain.NoopPublisher{}
	}
	if opts.cache == nil {
		opts.cache = noopCache{}
	}
	if opts.newID == nil {
		opts.newID = NewUUIDv7
	}
	return opts
}

// publish вызывает publisher один раз, без собственных повторов. Ошибка брокера
// не влияет на результат операции.
func (o storeOptions) publish(ctx context.Context, eventType domain.EventType, id string, payload any) {
	err := o.publisher.Publish(ctx, domain.Event{
		Type:        eventType,
		AggregateID: id,
		Payload:     payload,
		OccurredAt:  o.now().UTC(),
	})
	o.metrics.RecordEventPublished(err)
	if err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"event_type":   eventType,
			"aggregate_id": id,
		}).Warn("failed to publish lifecycle event")
	}
}
