package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars unsets every variable Load reads.
func clearEnvVars(t *testing.T) {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "DAILYEASE_SUBSCRIBER_ID",
		"DATABASE_URL", "DATABASE_MAX_CONNS", "SQLITE_PATH", "REDIS_URL", "LOCK_TTL", "LOCK_WAIT", "RABBITMQ_URL",
		"STRIPE_SECRET_KEY", "RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET",
		"PAYMENT_CURRENCY", "PAYMENT_PROVIDER_ORDER", "PAYMENT_MANUAL_FALLBACK",
		"PAYMENT_ATTEMPT_TTL", "PAYMENT_SWEEP_INTERVAL",
		"GATEWAY_BREAKER_THRESHOLD", "GATEWAY_BREAKER_TIMEOUT", "GATEWAY_TIMEOUT",
		"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
		"OUTBOX_RETENTION_DAYS", "OUTBOX_CLEANUP_INTERVAL", "OUTBOX_PROCESSOR_ENABLED",
		"API_ADDR", "WORKER_HEALTH_ADDR",
	}
	for _, v := range envVars {
		prev, had := os.LookupEnv(v)
		os.Unsetenv(v)
		if had {
			t.Cleanup(func() { os.Setenv(v, prev) })
		}
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.LocalMode)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "INR", cfg.PaymentCurrency)
	assert.Equal(t, []string{"redirect", "card"}, cfg.PaymentProviderOrder)
	assert.False(t, cfg.PaymentManualFallback)
	assert.Equal(t, 24*time.Hour, cfg.PaymentAttemptTTL)
	assert.Equal(t, 5, cfg.GatewayBreakerThreshold)
	assert.False(t, cfg.CardConfigured())
	assert.False(t, cfg.RedirectConfigured())
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 10, cfg.DatabaseMaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.APIAddr)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("DATABASE_URL", "postgres://dailyease@localhost:5432/dailyease")
	t.Setenv("PAYMENT_PROVIDER_ORDER", "Card, redirect")
	t.Setenv("PAYMENT_CURRENCY", "inr")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")
	t.Setenv("PAYMENT_ATTEMPT_TTL", "2h")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.LocalMode)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, []string{"card", "redirect"}, cfg.PaymentProviderOrder)
	assert.Equal(t, "INR", cfg.PaymentCurrency)
	assert.True(t, cfg.CardConfigured())
	assert.True(t, cfg.RedirectConfigured())
	assert.Equal(t, 2*time.Hour, cfg.PaymentAttemptTTL)
	assert.Equal(t, 100, cfg.OutboxBatchSize, "invalid ints fall back to default")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad subscriber id", "DAILYEASE_SUBSCRIBER_ID", "me"},
		{"bad currency", "PAYMENT_CURRENCY", "RUPEES"},
		{"unknown provider", "PAYMENT_PROVIDER_ORDER", "redirect,paypal"},
		{"half razorpay credentials", "RAZORPAY_KEY_ID", "rzp_test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearEnvVars(t)
	t.Cleanup(func() {
		os.Unsetenv("API_ADDR")
		os.Unsetenv("PAYMENT_MANUAL_FALLBACK")
	})

	path := filepath.Join(t.TempDir(), "dailyease.env")
	require.NoError(t, os.WriteFile(path, []byte("API_ADDR=127.0.0.1:9090\nPAYMENT_MANUAL_FALLBACK=true\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.APIAddr)
	assert.True(t, cfg.PaymentManualFallback)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
