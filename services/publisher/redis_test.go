package publisher

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(t *testing.T, prefix string, count int, maxLength int64) (*RedisPublisher, *redis.Client) {
	ctx := context.Background()
	publisher := NewRedisPublisher(ctx, "localhost:6379", 0, prefix, count, maxLength)
	t.Cleanup(func() { publisher.Close() })

	if err := publisher.Ping(ctx); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 0})
	t.Cleanup(func() { client.Close() })

	for i := 0; i < count; i++ {
		client.Del(ctx, publisher.Stream(i))
	}
	return publisher, client
}

func TestRedisPublisher_Publish(t *testing.T) {
	publisher, client := newTestPublisher(t, "test_news_publish", 1, 100)
	ctx := context.Background()

	require.NoError(t, publisher.Publish("b64_article", []byte("test_message")))

	messages, err := client.XRange(ctx, publisher.Stream(0), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	// base64 of "test_message"
	assert.Equal(t, "dGVzdF9tZXNzYWdl", messages[0].Values["b64_article"])
}

func TestRedisPublisher_RoundRobin(t *testing.T) {
	publisher, client := newTestPublisher(t, "test_news_rr", 2, 100)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, publisher.Publish("b64_article", []byte("m")))
	}

	for i := 0; i < 2; i++ {
		n, err := client.XLen(ctx, publisher.Stream(i)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	}
}

func TestRedisPublisher_TrimStreams(t *testing.T) {
	publisher, client := newTestPublisher(t, "test_news_trim", 1, 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, publisher.Publish("b64_article", []byte("m")))
	}
	require.NoError(t, publisher.TrimStreams())

	n, err := client.XLen(ctx, publisher.Stream(0)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisPublisher_StreamNames(t *testing.T) {
	publisher := NewRedisPublisher(context.Background(), "localhost:6379", 0, "news", 0, 10)
	defer publisher.Close()

	assert.Equal(t, "news:0", publisher.Stream(0))
	assert.Equal(t, 1, publisher.streamCount)
}
