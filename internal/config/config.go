package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"connector/internal/domain"
)

type Config struct {
	HTTPPort           int           `env:"HTTP_PORT"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS"`

	DBConfig struct {
		Host     string `env:"CONNECTOR_DB_HOST"`
		Port     int    `env:"CONNECTOR_DB_PORT"`
		User     string `env:"CONNECTOR_DB_USER"`
		Password string `env:"CONNECTOR_DB_PASSWORD"`
		Name     string `env:"CONNECTOR_DB_NAME"`
		SSLMode  string `env:"CONNECTOR_DB_SSLMODE"`
	}
	MigrationsURL string `env:"MIGRATIONS_URL"`

	KafkaBrokerURL           string `env:"KAFKA_BROKER_URL"`
	KafkaPaymentOutcomeTopic string `env:"KAFKA_PAYMENT_OUTCOME_TOPIC"`
	KafkaChargeEventsTopic   string `env:"KAFKA_CHARGE_EVENTS_TOPIC"`
	KafkaConsumerGroup       string `env:"KAFKA_CONSUMER_GROUP"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL"`
	OutboxPollTimeout  time.Duration `env:"OUTBOX_POLL_TIMEOUT"`
	OutboxMaxAge       time.Duration `env:"OUTBOX_MAX_AGE"`

	RedisURL string `env:"REDIS_URL"`

	Gateway struct {
		LiveBaseURL    string        `env:"GATEWAY_LIVE_BASE_URL"`
		LiveAuthURL    string        `env:"GATEWAY_LIVE_AUTH_URL"`
		SandboxBaseURL string        `env:"GATEWAY_SANDBOX_BASE_URL"`
		SandboxAuthURL string        `env:"GATEWAY_SANDBOX_AUTH_URL"`
		ForceSandbox   bool          `env:"GATEWAY_FORCE_SANDBOX"`
		Timeout        time.Duration `env:"GATEWAY_TIMEOUT"`
		CallbackURL    string        `env:"GATEWAY_CALLBACK_URL"`
	}

	Market domain.Market
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("HTTP_PORT", 8080)
	cfg.HTTPRequestTimeout = getEnvAsDuration("HTTP_REQUEST_TIMEOUT", 60*time.Second)
	cfg.CORSAllowedOrigins = strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ",")

	cfg.DBConfig.Host = getEnvOrDefault("CONNECTOR_DB_HOST", "localhost")
	cfg.DBConfig.Port = getEnvAsInt("CONNECTOR_DB_PORT", 5432)
	cfg.DBConfig.User = getEnvOrDefault("CONNECTOR_DB_USER", "user")
	cfg.DBConfig.Password = getEnvOrDefault("CONNECTOR_DB_PASSWORD", "password")
	cfg.DBConfig.Name = getEnvOrDefault("CONNECTOR_DB_NAME", "connector_db")
	cfg.DBConfig.SSLMode = getEnvOrDefault("CONNECTOR_DB_SSLMODE", "disable")
	cfg.MigrationsURL = getEnvOrDefault("MIGRATIONS_URL", "file:///app/migrations")

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaPaymentOutcomeTopic = getEnvOrDefault("KAFKA_PAYMENT_OUTCOME_TOPIC", "payment_outcomes")
	cfg.KafkaChargeEventsTopic = getEnvOrDefault("KAFKA_CHARGE_EVENTS_TOPIC", "gateway_charge_events")
	cfg.KafkaConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", "connector-service-group")

	cfg.OutboxPollInterval = getEnvAsDuration("OUTBOX_POLL_INTERVAL", 1*time.Second)
	cfg.OutboxPollTimeout = getEnvAsDuration("OUTBOX_POLL_TIMEOUT", 5*time.Second)
	cfg.OutboxMaxAge = getEnvAsDuration("OUTBOX_MAX_AGE", 24*time.Hour)

	cfg.RedisURL = getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0")

	cfg.Gateway.LiveBaseURL = getEnvOrDefault("GATEWAY_LIVE_BASE_URL", "https://api.gateway.example")
	cfg.Gateway.LiveAuthURL = getEnvOrDefault("GATEWAY_LIVE_AUTH_URL", "https://auth.gateway.example")
	cfg.Gateway.SandboxBaseURL = getEnvOrDefault("GATEWAY_SANDBOX_BASE_URL", "https://api-sandbox.gateway.example")
	cfg.Gateway.SandboxAuthURL = getEnvOrDefault("GATEWAY_SANDBOX_AUTH_URL", "https://auth-sandbox.gateway.example")
	cfg.Gateway.ForceSandbox = getEnvAsBool("GATEWAY_FORCE_SANDBOX", false)
	cfg.Gateway.Timeout = getEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second)
	cfg.Gateway.CallbackURL = getEnvOrDefault("GATEWAY_CALLBACK_URL", "")

	defaults := domain.DefaultMarket()
	cfg.Market = domain.Market{
		Country:      getEnvOrDefault("MARKET_COUNTRY", defaults.Country),
		Currency:     getEnvOrDefault("MARKET_CURRENCY", defaults.Currency),
		DocumentType: getEnvOrDefault("MARKET_DOCUMENT_TYPE", defaults.DocumentType),
		PaymentFlow:  defaults.PaymentFlow,
		Description:  defaults.Description,
	}

	if cfg.Gateway.CallbackURL == "" {
		return nil, fmt.Errorf("GATEWAY_CALLBACK_URL is required")
	}

	return cfg, nil
}

func (c *Config) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokerURL, ",")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnvOrDefault(key, strconv.FormatBool(defaultValue))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
