package manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("not a cron", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
}

func TestNewScheduler_Descriptor(t *testing.T) {
	_, err := NewScheduler("@daily", func() {})
	require.NoError(t, err)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s, err := NewScheduler("0 9 * * *", func() {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
