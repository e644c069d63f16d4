package publisher

import (
	"context"
	"encoding/base64"
	"strconv"
	"sync/atomic"

	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher on a set of Redis streams
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int64
	next            atomic.Uint64
	log             *logger.Logger
}

// NewRedisPublisher creates a new Redis publisher writing to streamCount
// streams named <streamPrefix>:0 .. <streamPrefix>:<streamCount-1>
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int64) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if streamCount < 1 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
		log:             logger.ForPublisher(),
	}
}

// Stream returns the name of the n-th stream
func (p *RedisPublisher) Stream(n int) string {
	return p.streamPrefix + ":" + strconv.Itoa(n)
}

// Publish base64 encodes message and appends it to the next stream in
// round-robin order
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)
	stream := p.Stream(int(p.next.Add(1)-1) % p.streamCount)

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
	if err != nil {
		return crawlerrors.NewPublisher("redis", "failed to publish to "+stream, err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	if p.streamMaxLength <= 0 {
		return nil
	}

	streams, err := p.client.Keys(p.ctx, p.streamPrefix+":*").Result()
	if err != nil {
		return crawlerrors.NewPublisher("redis", "failed to list streams", err)
	}

	for _, stream := range streams {
		if err := p.client.XTrimMaxLen(p.ctx, stream, p.streamMaxLength).Err(); err != nil {
			return crawlerrors.NewPublisher("redis", "failed to trim "+stream, err)
		}
	}
	p.log.Debug().Int("streams", len(streams)).Int64("max_length", p.streamMaxLength).Msg("Trimmed streams")

	return nil
}

// Ping checks that Redis is reachable
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return crawlerrors.NewPublisher("redis", "redis is not reachable", err)
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
