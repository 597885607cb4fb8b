package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestAsideMissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Title = "cached title"
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, "post:7", &first, PostTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "cached title", first.Title)

	var second cachedPost
	require.NoError(t, Aside(ctx, "post:7", &second, PostTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, first, second)
}

func TestAsideFetchErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	fetchErr := errors.New("db down")
	var dest cachedPost
	err := Aside(context.Background(), "post:1", &dest, PostTTL, func() error { return fetchErr })
	assert.ErrorIs(t, err, fetchErr)
}

func TestAsideWithoutClientFallsThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var dest cachedPost
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "post:2", &dest, PostTTL, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches, "no cache means every read fetches")
}

func TestInvalidatePost(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, PostKey(3), "x", 0).Err())
	require.NoError(t, client.Set(ctx, PublishedListKey, "y", 0).Err())

	InvalidatePost(ctx, 3)

	assert.Equal(t, int64(0), client.Exists(ctx, PostKey(3)).Val())
	assert.Equal(t, int64(0), client.Exists(ctx, PublishedListKey).Val())
}
