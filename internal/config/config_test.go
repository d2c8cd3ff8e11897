package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "product_tabs", cfg.Database.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Tabs.RulesCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.Tabs.SettingsCacheTTL)
	assert.False(t, cfg.Tabs.SharedCache)
	assert.True(t, cfg.Tabs.SeedBuiltIns)
	assert.Equal(t, "product-tabs:cache-events", cfg.Tabs.InvalidationStream)
	assert.Equal(t, "product-tabs-"+cfg.Tabs.InstanceID, cfg.Tabs.ConsumerGroup)
	assert.Equal(t, "postgres", cfg.Analytics.Sink)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TABS_RULES_CACHE_TTL", "60")
	t.Setenv("TABS_SETTINGS_CACHE_TTL", "120")
	t.Setenv("TABS_SHARED_CACHE", "true")
	t.Setenv("TABS_INSTANCE_ID", "web-1")
	t.Setenv("ANALYTICS_SINK", "http")
	t.Setenv("ANALYTICS_ENDPOINT", "http://collector")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "shop", cfg.Database.Database)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Tabs.RulesCacheTTL)
	assert.Equal(t, 2*time.Minute, cfg.Tabs.SettingsCacheTTL)
	assert.True(t, cfg.Tabs.SharedCache)
	assert.Equal(t, "web-1", cfg.Tabs.InstanceID)
	assert.Equal(t, "product-tabs-web-1", cfg.Tabs.ConsumerGroup)
	assert.Equal(t, "http", cfg.Analytics.Sink)
	assert.Equal(t, "http://collector", cfg.Analytics.Endpoint)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	t.Setenv("TABS_RULES_CACHE_TTL", "soon")
	t.Setenv("TABS_SETTINGS_CACHE_TTL", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Tabs.RulesCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.Tabs.SettingsCacheTTL)
}

func TestLoad_InvalidConnectionIntegerFails(t *testing.T) {
	t.Setenv("DB_PORT", "five-four-three-two")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_PORT")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")
	assert.Equal(t, "test-value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default-value", getEnv("NON_EXISTENT_VAR", "default-value"))
}
