package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-backend-go/pkg/cache"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := cache.NewMemoryCache()

	require.NoError(t, c.Set("k", "v", 0))

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Delete("k"))

	got, err = c.Get("k")
	require.NoError(t, err)
	assert.Empty(t, got, "missing key reads as empty, matching the Redis contract")
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := cache.NewMemoryCache()

	require.NoError(t, c.Set("k", "v", 10*time.Millisecond))

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	time.Sleep(20 * time.Millisecond)

	got, err = c.Get("k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryCache_ByteValues(t *testing.T) {
	c := cache.NewMemoryCache()

	require.NoError(t, c.Set("k", []byte("raw"), 0))

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "raw", got)
}
