package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")
	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a value
	err := mc.Set("news_test_key", []byte("test_value"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get("news_test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	// Delete the value
	err = mc.Delete("news_test_key")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get("news_test_key")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting twice is not an error
	assert.NoError(t, mc.Delete("news_test_key"))
}
