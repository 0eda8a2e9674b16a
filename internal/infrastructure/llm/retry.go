package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// RetryPolicy reruns an operation while a classifier marks its error as
// transient. The last error is returned unchanged once attempts run out.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy matches the provider back-off contract: 5 attempts,
// 2s initial wait doubling up to 60s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: 2 * time.Second,
		MaxDelay:     60 * time.Second,
	}
}

// Do executes op until it succeeds, fails with a non-retryable error, or
// exhausts MaxAttempts. Waits between attempts respect ctx cancellation.
func (p RetryPolicy) Do(ctx context.Context, retryable func(error) bool, op func() error) error {
	delay := p.InitialDelay

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !retryable(err) || attempt >= p.MaxAttempts {
			return err
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}

// HTTPStatusCoder exposes the HTTP status carried by a provider error.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// IsRateLimitError reports whether err looks like a transient rate-limit
// condition that is worth backing off and retrying. Anything else is fatal.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var sc HTTPStatusCoder
	if errors.As(err, &sc) && sc.HTTPStatusCode() == 429 {
		return true
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RATELIMIT_EXCEEDED") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "rate limit")
}
