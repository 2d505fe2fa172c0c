package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOTEL_APP_ENV", "development")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOTEL_APP_ENV", "staging")
	t.Setenv("HOTEL_SERVICE_PORT", "9090")
	t.Setenv("HOTEL_TIMEZONE", "Asia/Jakarta")
	t.Setenv("HOTEL_CORS_ORIGINS", "https://desk.hotel.test, https://admin.hotel.test")
	t.Setenv("HOTEL_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
	assert.Equal(t, []string{"https://desk.hotel.test", "https://admin.hotel.test"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("HOTEL_TIMEZONE", "Mars/Olympus")

	_, err := Load()

	assert.Error(t, err)
}
