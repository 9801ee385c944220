package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("ORDER_API_BASE_URL", "https://orders.example.test/api/")
	t.Setenv("ORDER_API_TIMEOUT_SECONDS", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ORDER_API_SCOPES", "orders.read,payments.write")

	cfg := Load()

	assert.Equal(t, "https://orders.example.test/api", cfg.OrderAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.OrderAPI.Timeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"orders.read", "payments.write"}, cfg.OrderAPI.Scopes)
	assert.Equal(t, "pos.payments", cfg.Kafka.PaymentsTopic)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		OrderAPI: OrderAPIConfig{BaseURL: "http://orders"},
		JWT:      JWTConfig{Secret: "s"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.OrderAPI.ClientID = "pos"
	assert.Error(t, cfg.Validate())

	cfg.OrderAPI.TokenURL = "http://auth/token"
	assert.NoError(t, cfg.Validate())

	cfg.JWT.Secret = ""
	assert.Error(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", Name: "n", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}
