package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	iterations := 0

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := Loop(ctx, Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(ctx context.Context) error {
			iterations++

			return nil
		},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Greater(t, iterations, 0)
}

func TestLoop_OnErrorCanAbort(t *testing.T) {
	fatal := errors.New("fatal")

	err := Loop(context.Background(), Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(ctx context.Context) error {
			return fatal
		},
		OnError: func(err error) bool {
			return false
		},
	})

	assert.Equal(t, fatal, err)
}

func TestWait_CancelWinsOverTimer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Hour)
	assert.True(t, errors.Is(err, context.Canceled))
}
