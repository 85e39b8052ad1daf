package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/npcbot/internal/database"
	"github.com/osse101/npcbot/internal/database/dbtest"
)

func TestNewPool_InvalidConnString(t *testing.T) {
	_, err := database.NewPool(context.Background(), "://not a url", database.DefaultPoolConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), database.ErrMsgFailedToParseConnString)
}

func TestPool_ConnectionsReleased(t *testing.T) {
	connStr := dbtest.StartPostgres(t)

	pool, err := database.NewPool(context.Background(), connStr, database.PoolConfig{MaxConns: 5, MaxConnIdleTime: time.Minute, MaxConnLifetime: 5 * time.Minute})
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		conn, err := pool.Acquire(ctx)
		require.NoError(t, err, "Failed to acquire connection on iteration %d", i)

		var result int
		require.NoError(t, conn.QueryRow(ctx, "SELECT 1").Scan(&result))
		assert.Equal(t, 1, result)

		conn.Release()
	}

	assert.Equal(t, int32(0), pool.Stat().AcquiredConns(), "All connections should be released")
}

func TestPool_MaxConnsEnforced(t *testing.T) {
	connStr := dbtest.StartPostgres(t)

	maxConns := 3
	pool, err := database.NewPool(context.Background(), connStr, database.PoolConfig{MaxConns: maxConns})
	require.NoError(t, err)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conns := make([]*pgxpool.Conn, maxConns)
	for i := range conns {
		conns[i], err = pool.Acquire(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(maxConns), pool.Stat().AcquiredConns())

	shortCtx, shortCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer shortCancel()
	_, err = pool.Acquire(shortCtx)
	assert.Error(t, err, "Should fail to acquire when pool is exhausted")

	for _, c := range conns {
		c.Release()
	}
}

func TestMigrator_UpDownStatus(t *testing.T) {
	connStr := dbtest.StartPostgres(t)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, connStr, database.DefaultPoolConfig())
	require.NoError(t, err)
	defer pool.Close()

	m, err := database.NewMigrator(pool)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx), "second run is a no-op")

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	for _, s := range status {
		assert.True(t, s.Applied, "migration %d should be applied", s.Version)
	}

	var exists bool
	require.NoError(t, pool.QueryRow(ctx, `SELECT to_regclass('public.inventory_items') IS NOT NULL`).Scan(&exists))
	assert.True(t, exists)

	require.NoError(t, m.Down(ctx))
	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status[1].Applied)

	require.NoError(t, pool.QueryRow(ctx, `SELECT to_regclass('public.inventory_items') IS NOT NULL`).Scan(&exists))
	assert.False(t, exists)
}
