package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GATEWAY_CALLBACK_URL", "https://connector.example/webhooks/gateway")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "payment_outcomes", cfg.KafkaPaymentOutcomeTopic)
	assert.Equal(t, "gateway_charge_events", cfg.KafkaChargeEventsTopic)
	assert.Equal(t, time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, "BR", cfg.Market.Country)
	assert.Equal(t, "BRL", cfg.Market.Currency)
	assert.Equal(t, "CPF", cfg.Market.DocumentType)
	assert.False(t, cfg.Gateway.ForceSandbox)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("GATEWAY_CALLBACK_URL", "https://cb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKER_URL", "k1:9092,k2:9092")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("GATEWAY_FORCE_SANDBOX", "true")
	t.Setenv("MARKET_COUNTRY", "MX")
	t.Setenv("MARKET_CURRENCY", "MXN")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.GetKafkaBrokers())
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.True(t, cfg.Gateway.ForceSandbox)
	assert.Equal(t, "MX", cfg.Market.Country)
	assert.Equal(t, "MXN", cfg.Market.Currency)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("GATEWAY_CALLBACK_URL", "https://cb")
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("GATEWAY_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
}

func TestLoadConfig_RequiresCallbackURL(t *testing.T) {
	t.Setenv("GATEWAY_CALLBACK_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
