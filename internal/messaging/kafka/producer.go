package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// Producer публикует события каталога в Kafka. Реализует domain.EventPublisher.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *log.Entry
}

var _ domain.EventPublisher = (*Producer)(nil)

// NewProducer создаёт синхронный producer для указанного топика.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newProducer(producer, topic), nil
}

// producerConfig включает идемпотентный режим: sarama повторяет отправку на
// транспортном уровне, а брокер отбрасывает дубликаты по sequence number.
func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	return config
}

func newProducer(producer sarama.SyncProducer, topic string) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   log.WithField("component", "kafka-producer"),
	}
}

// Publish синхронно отправляет событие. Сам Publish не повторяет вызов: повторы
// делает sarama внутри идемпотентного producer, и в топик попадает одна копия.
// Ошибка после исчерпания повторов возвращается вызывающему. Ключ сообщения —
// ID сущности, поэтому события одной сущности попадают в одну партицию по порядку.
func (p *Producer) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := newEnvelope(event)
	data, err := env.encode()
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.AggregateID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderEventType), Value: []byte(env.EventType)},
			{Key: []byte(HeaderEntity), Value: []byte(env.Entity)},
			{Key: []byte(HeaderOccurredAt), Value: []byte(env.OccurredAt.Format(time.RFC3339Nano))},
		},
		Timestamp: env.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic":      p.topic,
			"event_type": env.EventType,
			"key":        event.AggregateID,
		}).Error("failed to send event to kafka")
		return fmt.Errorf("failed to send event: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":      p.topic,
		"event_type": env.EventType,
		"partition":  partition,
		"offset":     offset,
	}).Debug("event sent to kafka")
	return nil
}

// Topic возвращает топик, в который пишет producer.
func (p *Producer) Topic() string {
	return p.topic
}

// Close закрывает producer.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
