package config

import (
	"os"
	"strconv"
	"time"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/config"
)

// Config product tab service configuration
type Config struct {
	Database config.DatabaseConfig
	Redis    config.RedisConfig

	HTTP struct {
		Addr string
	}

	Tabs struct {
		// Cross-request snapshot TTLs
		RulesCacheTTL    time.Duration
		SettingsCacheTTL time.Duration

		// SharedCache stores snapshots in Redis so all instances share one fetch
		SharedCache bool

		// Invalidation events fan out over a Redis stream; every instance reads
		// it with its own consumer group
		InvalidationStream string
		ConsumerGroup      string
		InstanceID         string

		// SeedBuiltIns inserts missing built-in tab settings on startup
		SeedBuiltIns bool

		// PriceLocale is the BCP 47 tag used to format prices in templates
		PriceLocale string
	}

	Analytics struct {
		// Sink: "postgres", "http" or "none"
		Sink     string
		Endpoint string
		Timeout  time.Duration
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "product_tabs"
	cfg.Database.SSLMode = "disable"
	if err := cfg.Database.LoadFromEnv("DB"); err != nil {
		return nil, err
	}

	cfg.Redis.Addr = "localhost:6379"
	if err := cfg.Redis.LoadFromEnv("REDIS"); err != nil {
		return nil, err
	}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Tabs.RulesCacheTTL = getEnvSeconds("TABS_RULES_CACHE_TTL", 5*time.Minute)
	cfg.Tabs.SettingsCacheTTL = getEnvSeconds("TABS_SETTINGS_CACHE_TTL", 10*time.Minute)
	cfg.Tabs.SharedCache = getEnv("TABS_SHARED_CACHE", "false") == "true"
	cfg.Tabs.InvalidationStream = getEnv("TABS_INVALIDATION_STREAM", "product-tabs:cache-events")
	cfg.Tabs.InstanceID = getEnv("TABS_INSTANCE_ID", defaultInstanceID())
	cfg.Tabs.ConsumerGroup = getEnv("TABS_CONSUMER_GROUP", "product-tabs-"+cfg.Tabs.InstanceID)
	cfg.Tabs.SeedBuiltIns = getEnv("TABS_SEED_BUILTINS", "true") == "true"
	cfg.Tabs.PriceLocale = getEnv("PRICE_LOCALE", "en")

	cfg.Analytics.Sink = getEnv("ANALYTICS_SINK", "postgres")
	cfg.Analytics.Endpoint = getEnv("ANALYTICS_ENDPOINT", "")
	cfg.Analytics.Timeout = getEnvSeconds("ANALYTICS_TIMEOUT", 2*time.Second)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSeconds reads a positive number of seconds, falling back to def
func getEnvSeconds(key string, def time.Duration) time.Duration {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}

func defaultInstanceID() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "local"
}
