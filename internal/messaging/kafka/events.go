package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// DefaultTopic — топик событий каталога по умолчанию.
const DefaultTopic = "catalog.events"

// Kafka headers, по которым потребители маршрутизируют события без разбора тела.
const (
	HeaderEventType  = "x-event-type"
	HeaderEntity     = "x-entity"
	HeaderOccurredAt = "x-occurred-at"
)

// envelope — JSON-представление события в топике.
type envelope struct {
	EventType   domain.EventType `json:"event_type"`
	Entity      string           `json:"entity"`
	AggregateID string           `json:"aggregate_id"`
	OccurredAt  time.Time        `json:"occurred_at"`
	Payload     any              `json:"payload,omitempty"`
}

func newEnvelope(event domain.Event) envelope {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return envelope{
		EventType:   event.Type,
		Entity:      entityOf(event.Type),
		AggregateID: event.AggregateID,
		OccurredAt:  occurred,
		Payload:     event.Payload,
	}
}

func (e envelope) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.EventType, err)
	}
	return data, nil
}

// entityOf возвращает префикс типа события: "product" или "order".
func entityOf(t domain.EventType) string {
	switch t {
	case domain.EventProductCreated, domain.EventProductUpdated, domain.EventProductDeleted:
		return "product"
	case domain.EventOrderCreated, domain.EventOrderUpdated, domain.EventOrderDeleted:
		return "order"
	default:
		return "unknown"
	}
}
