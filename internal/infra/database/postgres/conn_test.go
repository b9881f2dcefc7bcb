package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
	"github.com/seoyeonhwng/snoop/internal/pkg/config"
)

func TestNewPool(t *testing.T) {
	// Skip if no database available
	t.Skip("Integration test - requires PostgreSQL")

	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	assert.NoError(t, pool.Ping(ctx))
}

func TestPool_Health(t *testing.T) {
	// Skip if no database available
	t.Skip("Integration test - requires PostgreSQL")

	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	health := pool.Health(ctx)
	require.NotNil(t, health)
	assert.Equal(t, postgres.StatusHealthy, health.Status)
	assert.Greater(t, health.MaxConns, int32(0))
}

func TestNewPool_InvalidURL(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{URL: "://not a url"}}

	_, err := postgres.NewPool(context.Background(), cfg)
	assert.Error(t, err)
}
