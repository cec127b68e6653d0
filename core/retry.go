package core

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy determines retry behavior for failed requests.
type RetryPolicy interface {
	// NextDelay returns the delay before the next retry attempt and whether
	// to retry. If ok is false, no more attempts should be made.
	// attempt is the zero-based index of the attempt that just failed.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Maximum total attempts, including the first (default: 3)
	BaseDelay   time.Duration // Delay unit for backoff computation (default: 1s)
	MaxDelay    time.Duration // Maximum delay cap (default: 30s)
}

// DefaultRetryPolicy returns a retry policy with sensible defaults:
// at most 3 attempts, 1s base delay, 30s cap.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	})
}

// NewRetryPolicy creates a retry policy with the given configuration.
//
// Rate-limited and server-error failures back off exponentially
// (min(2^attempt*base, cap)), honoring a server-provided Retry-After hint
// when present. Network failures back off linearly (attempt*base).
// Authentication, validation, and decode failures are never retried.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	return &backoffPolicy{cfg: cfg}
}

type backoffPolicy struct {
	cfg RetryConfig
}

func (b *backoffPolicy) NextDelay(attempt int, err error) (time.Duration, bool) {
	// attempt+1 attempts have already been made.
	if attempt+1 >= b.cfg.MaxAttempts {
		return 0, false
	}

	switch classify(err) {
	case classRateLimited:
		if hint := retryAfterHint(err); hint > 0 {
			return b.cap(hint), true
		}
		return b.exponential(attempt), true
	case classServer:
		return b.exponential(attempt), true
	case classNetwork:
		return b.linear(attempt), true
	default:
		return 0, false
	}
}

func (b *backoffPolicy) exponential(attempt int) time.Duration {
	delay := float64(b.cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(b.cfg.MaxDelay) {
		delay = float64(b.cfg.MaxDelay)
	}
	return time.Duration(delay)
}

func (b *backoffPolicy) linear(attempt int) time.Duration {
	return b.cap(b.cfg.BaseDelay * time.Duration(attempt+1))
}

func (b *backoffPolicy) cap(d time.Duration) time.Duration {
	if d > b.cfg.MaxDelay {
		return b.cfg.MaxDelay
	}
	return d
}

// errClass partitions errors by retry treatment.
type errClass int

const (
	classFatal errClass = iota
	classRateLimited
	classServer
	classNetwork
)

// classify determines the retry treatment for an error.
func classify(err error) errClass {
	if err == nil {
		return classFatal
	}

	// Context cancellation is not retryable.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return classFatal
	}

	// Non-retryable sentinels take priority.
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrDecode) {
		return classFatal
	}

	switch {
	case errors.Is(err, ErrRateLimited):
		return classRateLimited
	case errors.Is(err, ErrServer):
		return classServer
	case errors.Is(err, ErrNetwork):
		return classNetwork
	}

	// Fall back to HTTP status classification.
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch {
		case pe.Status == 429:
			return classRateLimited
		case pe.Status >= 500 && pe.Status < 600:
			return classServer
		}
	}

	// Unknown errors are not retried.
	return classFatal
}

// retryAfterHint extracts a server-provided backoff hint, if any.
func retryAfterHint(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}
