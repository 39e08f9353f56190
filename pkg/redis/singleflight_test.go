package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleFlightCache_GetBytes_MissLoadsAndCaches(t *testing.T) {
	client, _ := setupTestClient(t)
	cache := NewSingleFlightCache(client)
	ctx := context.Background()

	loaderCalls := 0
	loader := func() ([]byte, error) {
		loaderCalls++
		return []byte(`{"plays":42}`), nil
	}

	data, err := cache.GetBytes(ctx, "stats", loader, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"plays":42}`), data)
	assert.Equal(t, 1, loaderCalls)

	// 第二次命中缓存，不再回源
	data, err = cache.GetBytes(ctx, "stats", loader, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"plays":42}`), data)
	assert.Equal(t, 1, loaderCalls)
}

func TestSingleFlightCache_GetBytes_LoaderError(t *testing.T) {
	client, _ := setupTestClient(t)
	cache := NewSingleFlightCache(client)

	wantErr := errors.New("query failed")
	_, err := cache.GetBytes(context.Background(), "stats", func() ([]byte, error) {
		return nil, wantErr
	}, time.Minute)

	assert.ErrorIs(t, err, wantErr)
}

func TestSingleFlightCache_GetBytes_ExpiredEntryReloads(t *testing.T) {
	client, mr := setupTestClient(t)
	cache := NewSingleFlightCache(client)
	ctx := context.Background()

	loaderCalls := 0
	loader := func() ([]byte, error) {
		loaderCalls++
		return []byte("v"), nil
	}

	_, err := cache.GetBytes(ctx, "stats", loader, time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.GetBytes(ctx, "stats", loader, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 2, loaderCalls)
}

func TestSingleFlightCache_SetBytes_Overwrites(t *testing.T) {
	client, _ := setupTestClient(t)
	cache := NewSingleFlightCache(client)
	ctx := context.Background()

	require.NoError(t, cache.SetBytes(ctx, "stats", []byte("old"), time.Minute))
	require.NoError(t, cache.SetBytes(ctx, "stats", []byte("new"), time.Minute))

	val, err := client.Get(ctx, "stats")
	assert.NoError(t, err)
	assert.Equal(t, "new", val)
}
