package helpers

import (
	"time"

	crawlerrors "sjsage522/newsworker/pkg/errors"
)

// RetryPolicy bounds how often a network call is attempted. The wait before
// attempt n+1 is Backoff*n.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	Sleep    func(time.Duration)
	// OnRetry is called before each wait with the attempt that just failed
	OnRetry func(attempt int, err error)
	// Retryable decides whether err is worth another attempt; defaults to
	// crawlerrors.IsRetryable
	Retryable func(err error) bool
}

// DefaultRetryPolicy makes three attempts waiting 1s then 2s
var DefaultRetryPolicy = RetryPolicy{
	Attempts: 3,
	Backoff:  time.Second,
	Sleep:    time.Sleep,
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy's attempts are used up. It never calls fn again after a success.
func Retry[T any](p RetryPolicy, fn func() (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = crawlerrors.IsRetryable
	}

	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if attempt == attempts || !retryable(err) {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		sleep(p.Backoff * time.Duration(attempt))
	}

	var zero T
	return zero, err
}
