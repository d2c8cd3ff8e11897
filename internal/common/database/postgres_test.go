package database

import (
	"context"
	"testing"
	"time"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	configurePool(db, &config.DatabaseConfig{MaxConns: 12, MaxIdle: 4, ConnMaxLifetime: time.Minute})

	assert.Equal(t, 12, db.Stats().MaxOpenConnections)
}

func TestConfigurePool_ZeroKeepsDefaults(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	configurePool(db, &config.DatabaseConfig{})

	assert.Equal(t, 0, db.Stats().MaxOpenConnections)
}

func TestNewPostgresDB_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewPostgresDB(ctx, &config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "tabs", SSLMode: "disable"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database 127.0.0.1:1")
}
