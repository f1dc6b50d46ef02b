package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })
	return NewWithClient(rc), mr
}

func TestClient_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_SetManyGetMany(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.SetMany(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}, time.Minute))

	vals, err := c.GetMany(ctx, "a", "missing", "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), vals[0])
	assert.Nil(t, vals[1])
	assert.Equal(t, []byte("2"), vals[2])

	assert.Equal(t, time.Minute, mr.TTL("a"))
}

func TestClient_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.Set(ctx, "list:flores:all", []byte("x"), 0))
	require.NoError(t, c.Set(ctx, "list:flores:store=1", []byte("x"), 0))
	require.NoError(t, c.Set(ctx, "list:users:all", []byte("x"), 0))

	require.NoError(t, c.DeletePrefix(ctx, "list:flores:"))

	assert.False(t, mr.Exists("list:flores:all"))
	assert.False(t, mr.Exists("list:flores:store=1"))
	assert.True(t, mr.Exists("list:users:all"))
}

func TestClient_FailsSafeWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	mr.Close()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)

	vals, err := c.GetMany(ctx, "a", "b")
	assert.NoError(t, err)
	assert.Len(t, vals, 2)
}

func TestClient_NilIsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.DeletePrefix(ctx, "x"))
}
