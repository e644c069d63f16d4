package sink

import (
	"encoding/json"

	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"
	"sjsage522/newsworker/services/publisher"
)

// StreamMessageKey is the stream field each encoded article is stored under
const StreamMessageKey = "b64_article"

// StreamSink publishes every article as JSON to a message stream
type StreamSink struct {
	publisher publisher.Publisher
	log       *logger.Logger
}

// NewStreamSink creates a sink on top of p. The sink owns p and closes it.
func NewStreamSink(p publisher.Publisher) *StreamSink {
	return &StreamSink{
		publisher: p,
		log:       logger.ForSink("stream"),
	}
}

func (s *StreamSink) Name() string { return "stream" }

// Save publishes articles in order and trims the streams once at the end
func (s *StreamSink) Save(batch Batch) error {
	if len(batch.Articles) == 0 {
		return nil
	}

	for _, a := range batch.Articles {
		data, err := json.Marshal(a)
		if err != nil {
			return crawlerrors.NewSink(s.Name(), "failed to encode "+a.URL, err)
		}
		if err := s.publisher.Publish(StreamMessageKey, data); err != nil {
			return crawlerrors.NewSink(s.Name(), "failed to publish "+a.URL, err)
		}
	}

	if err := s.publisher.TrimStreams(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to trim streams")
	}

	s.log.Info().Int("article_count", len(batch.Articles)).Msg("Published articles")
	return nil
}

func (s *StreamSink) Close() error {
	return s.publisher.Close()
}
