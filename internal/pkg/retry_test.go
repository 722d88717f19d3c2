package pkg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type instantRetrier struct {
	calls int
}

func (r *instantRetrier) NextInterval(retry int) time.Duration {
	r.calls++
	return 0
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after failures", func(t *testing.T) {
		retrier := &instantRetrier{}
		attempts := 0
		err := Retry(ctx, retrier, 5, func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("not yet")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 2, retrier.calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		retrier := &instantRetrier{}
		attempts := 0
		err := Retry(ctx, retrier, 3, func(ctx context.Context) error {
			attempts++
			return errors.New("down")
		})
		require.EqualError(t, err, "down")
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 2, retrier.calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		err := Retry(ctx, NewConnectRetrier(), 3, func(ctx context.Context) error {
			return errors.New("down")
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}
