package domain

import (
	"context"
	"time"
)

// EventType определяет тип события жизненного цикла каталога.
type EventType string

const (
	EventProductCreated EventType = "product.created"
	EventProductUpdated EventType = "product.updated"
	EventProductDeleted EventType = "product.deleted"
	EventOrderCreated   EventType = "order.created"
	EventOrderUpdated   EventType = "order.updated"
	EventOrderDeleted   EventType = "order.deleted"
)

// Event описывает изменение сущности каталога.
type Event struct {
	Type        EventType `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	Payload     any       `json:"payload,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher публикует события наружу. Хранилища вызывают Publish один раз на
// изменение; повторы доставки, если есть, остаются внутри реализации.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher отбрасывает события, когда брокер не настроен.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
