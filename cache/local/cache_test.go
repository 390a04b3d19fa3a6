package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *LocalCache {
	t.Helper()
	c, err := NewCache(Config{GCInterval: time.Minute})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestKV_SetGetDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Del(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKV_Expiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKV_SetNX(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := c.Get(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestZSet_RevRangeOrdering(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ZAdd(ctx, "board", 120, "amy"))
	require.NoError(t, c.ZAdd(ctx, "board", 340, "ben"))
	require.NoError(t, c.ZAdd(ctx, "board", 220, "cho"))

	top, err := c.ZRevRange(ctx, "board", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ben", "cho"}, top)

	all, err := c.ZRevRange(ctx, "board", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ben", "cho", "amy"}, all)
}

func TestZSet_ScoreUpdate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ZAdd(ctx, "board", 100, "amy"))
	require.NoError(t, c.ZAdd(ctx, "board", 500, "amy"))

	score, err := c.ZScore(ctx, "board", "amy")
	require.NoError(t, err)
	assert.Equal(t, float64(500), score)

	_, err = c.ZScore(ctx, "board", "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
