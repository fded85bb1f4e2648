// Package retry provides the single transient-failure recovery policy
// used across the service: bounded attempts with capped exponential
// backoff and a pluggable error classifier.
package retry

import (
	"context"
	"time"
)

// Default policy values, matching the store's write throttling profile.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 200 * time.Millisecond
	DefaultMaxDelay    = 10 * time.Second
)

// Policy describes a bounded retry-with-backoff policy.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry; subsequent delays
	// double per attempt.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff delay.
	MaxDelay time.Duration
	// Retryable reports whether an error is worth retrying. A nil
	// classifier retries every error.
	Retryable func(error) bool
}

// DefaultPolicy returns a policy with the package defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Delay returns the backoff delay preceding the given retry, with retry 0
// being the first re-attempt: BaseDelay * 2^retry, capped at MaxDelay.
func (p Policy) Delay(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	d := p.BaseDelay
	for i := 0; i < retry; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Sleep blocks for the backoff delay of the given retry, returning early
// with the context error if the context is cancelled.
func (p Policy) Sleep(ctx context.Context, retry int) error {
	timer := time.NewTimer(p.Delay(retry))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn until it succeeds, the classifier rejects the error, or
// MaxAttempts is exhausted. The last error is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if serr := p.Sleep(ctx, attempt-1); serr != nil {
				return serr
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}
	return err
}
