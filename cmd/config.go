package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"deliveryconfirm/internal/core/application/usecases/commands"
	"deliveryconfirm/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Supported EVENT_BROKER values.
const (
	BrokerRedis    = "redis"
	BrokerRabbitMQ = "rabbitmq"
	BrokerLog      = "log"
)

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	JWTSecret           string
	EventBroker         string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RabbitMQURL         string
	RabbitMQQueue       string
	OutboxRelaySchedule string
	OutboxBatchSize     int
	LogLevel            string
}

// LoadConfig reads envFile into the process environment (variables already set
// win; a missing file is fine) and builds the Config from it.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds the Config from lookup, applying defaults for unset keys.
func ConfigFromEnv(lookup func(key string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	redisDB, redisErr := atoi("REDIS_DB", get("REDIS_DB", "0"))
	batchSize, batchErr := atoi("OUTBOX_BATCH_SIZE", get("OUTBOX_BATCH_SIZE", "100"))
	if err := errors.Join(redisErr, batchErr); err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:            get("HTTP_PORT", "8080"),
		DBHost:              get("DB_HOST", ""),
		DBPort:              get("DB_PORT", "5432"),
		DBUser:              get("DB_USER", ""),
		DBPassword:          get("DB_PASSWORD", ""),
		DBName:              get("DB_NAME", ""),
		DBSslMode:           get("DB_SSLMODE", "disable"),
		JWTSecret:           get("JWT_SECRET", ""),
		EventBroker:         get("EVENT_BROKER", BrokerLog),
		RedisAddr:           get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       get("REDIS_PASSWORD", ""),
		RedisDB:             redisDB,
		RabbitMQURL:         get("RABBITMQ_URL", ""),
		RabbitMQQueue:       get("RABBITMQ_QUEUE", "order_events"),
		OutboxRelaySchedule: get("OUTBOX_RELAY_SCHEDULE", "*/5 * * * * *"),
		OutboxBatchSize:     batchSize,
		LogLevel:            get("LOG_LEVEL", "info"),
	}, nil
}

func atoi(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return n, nil
}

// Validate reports every missing or unusable setting at once.
func (c Config) Validate() error {
	var problems []error

	required := []struct {
		key   string
		value string
	}{
		{"DB_HOST", c.DBHost},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"JWT_SECRET", c.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, errs.NewValueIsRequiredError(r.key))
		}
	}

	switch c.EventBroker {
	case BrokerLog:
	case BrokerRedis:
		if c.RedisAddr == "" {
			problems = append(problems, errs.NewValueIsRequiredError("REDIS_ADDR"))
		}
	case BrokerRabbitMQ:
		if c.RabbitMQURL == "" {
			problems = append(problems, errs.NewValueIsRequiredError("RABBITMQ_URL"))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidError("EVENT_BROKER"))
	}

	if c.OutboxBatchSize < commands.MinRelayBatchSize || c.OutboxBatchSize > commands.MaxRelayBatchSize {
		problems = append(problems, errs.NewValueIsOutOfRangeError(
			"OUTBOX_BATCH_SIZE", c.OutboxBatchSize, commands.MinRelayBatchSize, commands.MaxRelayBatchSize,
		))
	}

	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err)
	}

	return errors.Join(problems...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}
	return level, nil
}
