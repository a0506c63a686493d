package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/messaging/kafka"
)

// initPublisher создаёт Kafka producer, если брокеры заданы. Без брокеров
// или при ошибке подключения события отбрасываются: сервис работает дальше.
func initPublisher(brokers []string, topic string, logger *log.Entry) (domain.EventPublisher, func() error) {
	if len(brokers) == 0 {
		return domain.NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(brokers, topic)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without events")
		return domain.NoopPublisher{}, nil
	}

	logger.WithFields(log.Fields{
		"brokers": brokers,
		"topic":   producer.Topic(),
	}).Info("kafka producer initialized")
	return producer, producer.Close
}
