package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/app"
	"github.com/vladislavdragonenkov/catalog/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level log.Level) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

func main() {
	cfg, err := app.LoadConfig(os.Getenv(app.ConfigPathEnv))
	if err != nil {
		setupLogger(log.InfoLevel)
		log.WithError(err).Fatal("некорректная конфигурация")
	}
	setupLogger(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"cache":          cfg.RedisAddr != "",
		"events":         len(cfg.KafkaBrokers) > 0,
		"build":          version.String(),
	}).Info("запускаем CatalogService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("CatalogService остановлен")
}
