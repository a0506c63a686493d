package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// ConfigPathEnv указывает путь к YAML-файлу конфигурации.
const ConfigPathEnv = "CATALOG_CONFIG"

// Config описывает настройки запуска сервиса каталога.
type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`

	StorageDriver       string `yaml:"storage_driver"`
	PostgresDSN         string `yaml:"postgres_dsn"`
	PostgresAutoMigrate bool   `yaml:"postgres_auto_migrate"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisTTL      time.Duration `yaml:"redis_ttl"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		LogLevel:            "info",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		RedisTTL:            5 * time.Minute,
		KafkaTopic:          "catalog.events",
		ShutdownTimeout:     5 * time.Second,
	}
}

// LoadConfig собирает конфигурацию: значения по умолчанию, затем YAML-файл
// (если путь задан), затем переменные окружения.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("CATALOG_HTTP_ADDR", &c.HTTPAddr)
	str("CATALOG_METRICS_ADDR", &c.MetricsAddr)
	str("CATALOG_LOG_LEVEL", &c.LogLevel)
	str("CATALOG_STORAGE_DRIVER", &c.StorageDriver)
	str("CATALOG_POSTGRES_DSN", &c.PostgresDSN)
	str("CATALOG_REDIS_ADDR", &c.RedisAddr)
	str("CATALOG_REDIS_PASSWORD", &c.RedisPassword)
	str("CATALOG_KAFKA_TOPIC", &c.KafkaTopic)

	if v, ok := lookup("CATALOG_POSTGRES_AUTO_MIGRATE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CATALOG_POSTGRES_AUTO_MIGRATE: %w", err)
		}
		c.PostgresAutoMigrate = b
	}
	if v, ok := lookup("CATALOG_REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CATALOG_REDIS_DB: %w", err)
		}
		c.RedisDB = db
	}
	if v, ok := lookup("CATALOG_REDIS_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CATALOG_REDIS_TTL: %w", err)
		}
		c.RedisTTL = ttl
	}
	if v, ok := lookup("CATALOG_KAFKA_BROKERS"); ok && v != "" {
		c.KafkaBrokers = splitList(v)
	}
	return nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres_dsn is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}
	if c.RedisTTL < 0 {
		errs = append(errs, errors.New("redis_ttl must be non-negative"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Level возвращает уровень логирования; некорректное значение даёт info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
