package sink

import (
	"time"

	"sjsage522/newsworker/internal/crawler"
)

// Batch is one run's worth of collected articles
type Batch struct {
	RunID    string
	Articles []crawler.ArticleRecord
	SavedAt  time.Time
}

// Sink persists article batches
type Sink interface {
	// Name identifies the sink in logs and errors
	Name() string

	// Save writes the batch. A failure never modifies the batch.
	Save(batch Batch) error

	// Close releases the sink's resources
	Close() error
}

func savedAt(b Batch) time.Time {
	if b.SavedAt.IsZero() {
		return time.Now()
	}
	return b.SavedAt
}
