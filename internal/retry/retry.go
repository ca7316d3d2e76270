// Package retry runs an operation under a bounded, fixed-delay retry policy.
package retry

import (
	"context"
	"time"
)

type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// Default mirrors the sitemap fetch behaviour: three attempts, two seconds apart.
var Default = Policy{Attempts: 3, Backoff: 2 * time.Second}

// Do calls fn until it succeeds or the attempts are used up, waiting Backoff
// between failed attempts. It returns the number of attempts made and the
// last error. A cancelled ctx stops the retries early.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(ctx, i); err == nil {
			return i, nil
		}
		if i == attempts {
			return i, err
		}
		if werr := wait(ctx, p.Backoff); werr != nil {
			return i, err
		}
	}
	return attempts, err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
