// Package retry runs an operation under optimistic concurrency control:
// generate a candidate, attempt the commit, and on a conflict regenerate
// and try again within a fixed budget.
package retry

import (
	"context"
	"errors"
	"fmt"
)

// ErrExhausted wraps the last conflict once every attempt has failed.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Policy bounds an optimistic retry loop.
type Policy struct {
	// MaxAttempts is the total number of tries, at least 1.
	MaxAttempts int
	// IsConflict reports whether err is retryable. Any other error stops
	// the loop immediately.
	IsConflict func(err error) bool
	// OnConflict, if set, is told about each retried attempt.
	OnConflict func(attempt int, err error)
}

// Do calls attempt until it succeeds, returns a non-conflict error, the
// budget runs out, or ctx is done. attempt receives the 1-based attempt
// number.
func Do[T any](ctx context.Context, p Policy, attempt func(ctx context.Context, n int) (T, error)) (T, error) {
	var zero T
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}

	var last error
	for n := 1; n <= max; n++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := attempt(ctx, n)
		if err == nil {
			return out, nil
		}
		if p.IsConflict == nil || !p.IsConflict(err) {
			return zero, err
		}

		last = err
		if p.OnConflict != nil {
			p.OnConflict(n, err)
		}
	}
	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, max, last)
}
