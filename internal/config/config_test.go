package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lokapasar")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GATEWAY_SERVER_KEY", "SB-Mid-server-test")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 256, cfg.QRRetryQueueSize)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_HOST", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "pw",
		DBName:     "shop",
		DBSSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db user=app password=pw dbname=shop port=5433 sslmode=disable",
		cfg.DSN(),
	)
}
