package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL Config
	DatabaseURL   string        `env:"DATABASE_URL"`
	DBMaxConns    int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBPingTimeout time.Duration `env:"DB_PING_TIMEOUT" envDefault:"5s"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// NATS Config, пустой URL отключает публикацию
	NATSURL     string `env:"NATS_URL"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"incidents.alerts"`

	// Alert engine
	AlertDistanceThresholdMeters float64       `env:"ALERT_DISTANCE_THRESHOLD_METERS" envDefault:"500"`
	AlertTimeThreshold           time.Duration `env:"ALERT_TIME_THRESHOLD" envDefault:"48h"`
	AlertsCacheTTL               time.Duration `env:"ALERTS_CACHE_TTL" envDefault:"30s"`
	SnapshotLookback             time.Duration `env:"SNAPSHOT_LOOKBACK" envDefault:"0"`
	KeywordsFile                 string        `env:"KEYWORDS_FILE"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:                  os.Getenv("DATABASE_URL"),
		DBMaxConns:                   getEnvAsInt("DB_MAX_CONNS", 10),
		DBPingTimeout:                getEnvAsDuration("DB_PING_TIMEOUT", 5*time.Second),
		HTTPPort:                     getEnv("HTTP_PORT", "8080"),
		LogLevel:                     getEnv("LOG_LEVEL", "info"),
		RedisAddr:                    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:                    os.Getenv("REDIS_PASSWORD"),
		RedisDB:                      getEnvAsInt("REDIS_DB", 0),
		WebhookURL:                   os.Getenv("WEBHOOK_URL"),
		WebhookSecret:                os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:               getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:            getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:             getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		NATSURL:                      os.Getenv("NATS_URL"),
		NATSSubject:                  getEnv("NATS_SUBJECT", "incidents.alerts"),
		AlertDistanceThresholdMeters: getEnvAsFloat("ALERT_DISTANCE_THRESHOLD_METERS", 500),
		AlertTimeThreshold:           getEnvAsDuration("ALERT_TIME_THRESHOLD", 48*time.Hour),
		AlertsCacheTTL:               getEnvAsDuration("ALERTS_CACHE_TTL", 30*time.Second),
		SnapshotLookback:             getEnvAsDuration("SNAPSHOT_LOOKBACK", 0),
		KeywordsFile:                 os.Getenv("KEYWORDS_FILE"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.AlertDistanceThresholdMeters <= 0 {
		return nil, fmt.Errorf("ALERT_DISTANCE_THRESHOLD_METERS must be positive, got %v", cfg.AlertDistanceThresholdMeters)
	}
	if cfg.AlertTimeThreshold <= 0 {
		return nil, fmt.Errorf("ALERT_TIME_THRESHOLD must be positive, got %v", cfg.AlertTimeThreshold)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
