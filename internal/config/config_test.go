package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithFile(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: "+testSecret+"\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Orders.LockStock)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
jwt:
  secret: `+testSecret+`
  expiry: 15m
orders:
  lock_stock: false
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Minute, cfg.JWT.Expiry)
	assert.False(t, cfg.Orders.LockStock)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: "+testSecret+"\n")
	t.Setenv("WEBSTORE_SERVER_ADDR", ":7070")
	t.Setenv("WEBSTORE_ORDERS_LOCK_STOCK", "false")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.False(t, cfg.Orders.LockStock)
}

func TestLoad_ShortSecret(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: short\n")

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEBSTORE_LOG_LEVEL=debug\n{broken line\n"), 0o600))

	err := loadDotEnv(path)

	assert.ErrorContains(t, err, path)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " c "}))
	assert.Nil(t, splitList([]string{" ", ""}))
}
