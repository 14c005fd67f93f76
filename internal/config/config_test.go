package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
api:
  environment: test
  base_url: localhost:8080
  port: "8080"
  allowed_cors_domains:
    - http://localhost:3000
  jwt_signing_key: test-key
  jwt_expiry_hours: 24

gin:
  mode: test

postgres:
  host: localhost
  port: "5432"
  user: festival
  password: secret
  db_name: festival
  ssl_mode: disable

stripe:
  secret_key: sk_test_123
  currency: eur

webhook:
  poll_interval_seconds: 5
  max_attempts: 5
  timeout_seconds: 10
  batch_size: 50
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "test-key", conf.API.JWTSigningKey)
	assert.Equal(t, 24, conf.API.JWTExpiryHours)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "festival", conf.Postgres.DBName)
	assert.Equal(t, "eur", conf.Stripe.Currency)
	assert.Equal(t, 5, conf.Webhook.MaxAttempts)
	assert.Equal(t, 10, conf.Webhook.TimeoutSeconds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
