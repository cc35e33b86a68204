// Package retry provides the bounded retry used around record-store and
// file-store writes.
package retry

import (
	"context"
	"time"
)

// Do runs fn up to attempts times, sleeping with doubling backoff between
// tries. The last error is returned when every attempt fails. Context
// cancellation stops the loop between attempts.
func Do(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
