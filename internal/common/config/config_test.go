package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "tabs", Password: "secret", Database: "product_tabs", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=tabs password=secret dbname=product_tabs sslmode=disable", cfg.GetDSN())
}

func TestDatabaseConfig_GetDSNQuotesValues(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "tabs", Password: `it's a pass\word`, Database: "product_tabs"}

	assert.Equal(t, `host=db port=5432 user=tabs password='it\'s a pass\\word' dbname=product_tabs`, cfg.GetDSN())
}

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "pg.internal")
	t.Setenv("TEST_DB_PORT", "6432")
	t.Setenv("TEST_DB_NAME", "shop")
	t.Setenv("TEST_DB_MAX_CONNS", "20")
	t.Setenv("TEST_DB_CONN_MAX_LIFETIME", "300")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Database: "product_tabs"}
	require.NoError(t, cfg.LoadFromEnv("TEST_DB"))

	assert.Equal(t, "pg.internal", cfg.Host)
	assert.Equal(t, 6432, cfg.Port)
	assert.Equal(t, "postgres", cfg.User)
	assert.Equal(t, "shop", cfg.Database)
	assert.Equal(t, 20, cfg.MaxConns)
	assert.Equal(t, 0, cfg.MaxIdle)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}

func TestDatabaseConfig_LoadFromEnvRejectsBadIntegers(t *testing.T) {
	t.Setenv("TEST_DB_PORT", "54x2")
	t.Setenv("TEST_DB_MAX_IDLE", "-1")

	cfg := DatabaseConfig{Port: 5432}
	err := cfg.LoadFromEnv("TEST_DB")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_DB_PORT")
	assert.Equal(t, 5432, cfg.Port)
}

func TestRedisConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "cache:6380")
	t.Setenv("TEST_REDIS_DB", "3")

	cfg := RedisConfig{Addr: "localhost:6379"}
	require.NoError(t, cfg.LoadFromEnv("TEST_REDIS"))

	assert.Equal(t, "cache:6380", cfg.Addr)
	assert.Equal(t, 3, cfg.DB)
	assert.Empty(t, cfg.Password)

	t.Setenv("TEST_REDIS_DB", "primary")
	assert.Error(t, cfg.LoadFromEnv("TEST_REDIS"))
}
