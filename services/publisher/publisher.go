package publisher

import "context"

// Publisher represents a service for publishing collected articles
type Publisher interface {
	// Publish publishes one encoded message under field key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Ping checks the connection to the broker
	Ping(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}
