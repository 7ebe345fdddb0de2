package app

import (
	"os"
	"strconv"
)

// Storage backends, выбираемые через FOODSTREAM_STORAGE.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// Storage выбирает реализацию state store: memory, file, redis, postgres.
	Storage     string
	DataDir     string
	PostgresDSN string
	RedisAddr   string

	KafkaBrokers string

	DeliveryFeeMinor int64
}

// DefaultConfig возвращает настройки по умолчанию: HTTP API на :8080,
// метрики на :9090, состояние в памяти.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:         ":8080",
		MetricsAddr:      ":9090",
		Storage:          StorageMemory,
		DataDir:          "./data",
		DeliveryFeeMinor: 40,
	}
}

// ConfigFromEnv строит конфигурацию из окружения поверх значений по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FOODSTREAM_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("FOODSTREAM_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("FOODSTREAM_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("FOODSTREAM_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FOODSTREAM_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("FOODSTREAM_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("FOODSTREAM_DELIVERY_FEE"); v != "" {
		if fee, err := strconv.ParseInt(v, 10, 64); err == nil && fee >= 0 {
			cfg.DeliveryFeeMinor = fee
		}
	}

	return cfg
}
