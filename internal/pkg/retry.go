package pkg

import (
	"context"
	"time"

	"github.com/gojek/heimdall/v7"
)

const (
	CONNECT_ATTEMPTS       = 5
	CONNECT_INITIAL_WAIT   = time.Second
	CONNECT_MAX_WAIT       = 16 * time.Second
	CONNECT_BACKOFF_FACTOR = 2
	CONNECT_MAX_JITTER     = 250 * time.Millisecond
)

func NewConnectRetrier() heimdall.Retriable {
	return heimdall.NewRetrier(heimdall.NewExponentialBackoff(
		CONNECT_INITIAL_WAIT,
		CONNECT_MAX_WAIT,
		CONNECT_BACKOFF_FACTOR,
		CONNECT_MAX_JITTER,
	))
}

// Retry calls fn up to attempts times, sleeping per the retrier between
// failures. The last error is returned.
func Retry(ctx context.Context, retrier heimdall.Retriable, attempts int, fn func(ctx context.Context) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retrier.NextInterval(i)):
		}
	}
	return err
}
