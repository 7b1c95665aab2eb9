package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalredis "github.com/sanLimbu/task-tracker/internal/redis"
)

func TestToken(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	token := internalredis.NewToken(client)
	ctx := context.Background()

	revoked, err := token.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, token.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = token.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = token.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	srv.FastForward(2 * time.Minute)

	revoked, err = token.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestToken_Revoke_Expired(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	token := internalredis.NewToken(client)

	require.NoError(t, token.Revoke(context.Background(), "jti-1", 0))
	assert.False(t, srv.Exists("token:revoked:jti-1"))
}

func TestToken_Error(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	srv.Close()

	_, err := internalredis.NewToken(client).IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}
