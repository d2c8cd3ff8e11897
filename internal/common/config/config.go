package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds the PostgreSQL pool settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// pool limits, zero leaves the database/sql default
	MaxConns        int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the Redis client settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GetDSN renders the keyword/value connection string lib/pq expects. Values
// are single-quoted so passwords may contain spaces and quotes.
func (c *DatabaseConfig) GetDSN() string {
	pairs := []struct{ key, value string }{
		{"host", c.Host},
		{"port", strconv.Itoa(c.Port)},
		{"user", c.User},
		{"password", c.Password},
		{"dbname", c.Database},
		{"sslmode", c.SSLMode},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteDSNValue(p.value))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// LoadFromEnv applies <prefix>_HOST, _PORT, _USER, _PASSWORD, _NAME,
// _SSLMODE, _MAX_CONNS, _MAX_IDLE and _CONN_MAX_LIFETIME (seconds). Unset
// variables keep the current value.
func (c *DatabaseConfig) LoadFromEnv(prefix string) error {
	env := envReader{prefix: prefix}
	env.str("_HOST", &c.Host)
	env.integer("_PORT", &c.Port)
	env.str("_USER", &c.User)
	env.str("_PASSWORD", &c.Password)
	env.str("_NAME", &c.Database)
	env.str("_SSLMODE", &c.SSLMode)
	env.integer("_MAX_CONNS", &c.MaxConns)
	env.integer("_MAX_IDLE", &c.MaxIdle)

	var lifetime int
	if env.integer("_CONN_MAX_LIFETIME", &lifetime) {
		c.ConnMaxLifetime = time.Duration(lifetime) * time.Second
	}
	return env.err
}

// LoadFromEnv applies <prefix>_ADDR, _PASSWORD and _DB
func (c *RedisConfig) LoadFromEnv(prefix string) error {
	env := envReader{prefix: prefix}
	env.str("_ADDR", &c.Addr)
	env.str("_PASSWORD", &c.Password)
	env.integer("_DB", &c.DB)
	return env.err
}

// envReader keeps the first parse error so callers check once
type envReader struct {
	prefix string
	err    error
}

func (r *envReader) str(suffix string, dst *string) {
	if v := os.Getenv(r.prefix + suffix); v != "" {
		*dst = v
	}
}

func (r *envReader) integer(suffix string, dst *int) bool {
	key := r.prefix + suffix
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		if r.err == nil {
			r.err = fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
		}
		return false
	}
	*dst = n
	return true
}
