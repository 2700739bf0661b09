package freeintervals

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// memoryClient хранит значения в map, TTL не учитывает
type memoryClient struct {
	data map[string]string
	ttl  time.Duration
	err  error
}

func newMemoryClient() *memoryClient {
	return &memoryClient{data: map[string]string{}}
}

func (m *memoryClient) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryClient) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	if m.err != nil {
		return redis.NewSliceResult(nil, m.err)
	}
	vals := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			vals = append(vals, v)
		} else {
			vals = append(vals, nil)
		}
	}
	return redis.NewSliceResult(vals, nil)
}

func (m *memoryClient) Incr(_ context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

var (
	monday  = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

func TestCache_SetGet(t *testing.T) {
	rdb := newMemoryClient()
	c := New(rdb, time.Minute)
	ctx := context.Background()

	_, version, ok, err := c.Get(ctx, monday)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEmpty(t, version)

	free := []domain.Interval{
		{Start: types.NewClock(16, 0), End: types.NewClock(18, 0)},
		{Start: types.NewClock(19, 0), End: types.NewClock(22, 0)},
	}
	require.NoError(t, c.Set(ctx, monday, version, free))
	assert.Equal(t, time.Minute, rdb.ttl)

	got, _, ok, err := c.Get(ctx, monday)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, free, got)
}

func TestCache_EmptyListIsAHit(t *testing.T) {
	c := New(newMemoryClient(), time.Minute)
	ctx := context.Background()

	_, version, _, err := c.Get(ctx, monday)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, monday, version, []domain.Interval{}))

	got, _, ok, err := c.Get(ctx, monday)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func fill(t *testing.T, c *Cache, date time.Time, free []domain.Interval) {
	t.Helper()
	_, version, _, err := c.Get(context.Background(), date)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), date, version, free))
}

func TestCache_Invalidate(t *testing.T) {
	rdb := newMemoryClient()
	c := New(rdb, time.Minute)
	ctx := context.Background()

	fill(t, c, monday, []domain.Interval{})
	fill(t, c, tuesday, []domain.Interval{})

	require.NoError(t, c.Invalidate(ctx, monday))
	_, _, ok, _ := c.Get(ctx, monday)
	assert.False(t, ok)
	_, _, ok, _ = c.Get(ctx, tuesday)
	assert.True(t, ok)

	rdb.data["unrelated"] = "x"
	require.NoError(t, c.InvalidateAll(ctx))
	_, _, ok, _ = c.Get(ctx, tuesday)
	assert.False(t, ok)
	assert.Equal(t, "x", rdb.data["unrelated"])
}

func TestCache_SetAfterInvalidateIsNotServed(t *testing.T) {
	stale := []domain.Interval{{Start: types.NewClock(16, 0), End: types.NewClock(22, 0)}}
	fresh := []domain.Interval{{Start: types.NewClock(16, 0), End: types.NewClock(18, 0)}}

	t.Run("date invalidated", func(t *testing.T) {
		c := New(newMemoryClient(), time.Minute)
		ctx := context.Background()

		// чтение начинается до брони, пишет после ее коммита
		_, version, ok, err := c.Get(ctx, monday)
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, c.Invalidate(ctx, monday))
		require.NoError(t, c.Set(ctx, monday, version, stale))

		_, _, ok, err = c.Get(ctx, monday)
		require.NoError(t, err)
		assert.False(t, ok)

		fill(t, c, monday, fresh)
		got, _, ok, err := c.Get(ctx, monday)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, fresh, got)
	})

	t.Run("whole cache invalidated", func(t *testing.T) {
		c := New(newMemoryClient(), time.Minute)
		ctx := context.Background()

		_, version, _, err := c.Get(ctx, tuesday)
		require.NoError(t, err)

		require.NoError(t, c.InvalidateAll(ctx))
		require.NoError(t, c.Set(ctx, tuesday, version, stale))

		_, _, ok, err := c.Get(ctx, tuesday)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCache_SetRequiresVersion(t *testing.T) {
	err := New(newMemoryClient(), time.Minute).Set(context.Background(), monday, "", []domain.Interval{})
	assert.Error(t, err)
}

func TestCache_GetError(t *testing.T) {
	rdb := newMemoryClient()
	rdb.err = errors.New("connection refused")

	_, _, ok, err := New(rdb, time.Minute).Get(context.Background(), monday)
	assert.Error(t, err)
	assert.False(t, ok)
}
