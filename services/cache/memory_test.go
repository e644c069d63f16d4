package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.Set("key", []byte("value"), time.Minute))
	value, err := c.Get("key")
	assert.NoError(t, err)
	assert.Equal(t, "value", string(value))

	assert.NoError(t, c.Delete("key"))
	_, err = c.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	assert.NoError(t, c.Set("blocked", []byte("300"), 5*time.Minute))

	now = now.Add(4 * time.Minute)
	_, err := c.Get("blocked")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get("blocked")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
