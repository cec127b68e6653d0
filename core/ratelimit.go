package core

import (
	"net/http"
	"strconv"
	"time"
)

// DefaultLowWaterMark is the remaining-request threshold below which the
// client surfaces a rate-limit warning before each attempt.
const DefaultLowWaterMark = 5

// RateLimit is a snapshot of the rate-limit counters a provider returned on
// its most recent response. It is used only for observability and backoff
// hints, never for protocol control flow.
type RateLimit struct {
	RemainingRequests int           // -1 when the header was absent
	RemainingTokens   int           // -1 when the header was absent
	ResetRequests     time.Duration // time until the request window resets, zero when absent
	ResetTokens       time.Duration // time until the token window resets, zero when absent
	Captured          time.Time     // when the snapshot was taken
}

// LowWater reports whether the remaining request quota is at or below the
// given threshold. A snapshot with no request counter never reads as low.
func (r RateLimit) LowWater(threshold int) bool {
	return r.RemainingRequests >= 0 && r.RemainingRequests <= threshold
}

// ParseRateLimit extracts rate-limit counters from response headers.
// Returns false when the response carried no recognizable counters.
func ParseRateLimit(h http.Header) (RateLimit, bool) {
	rl := RateLimit{
		RemainingRequests: -1,
		RemainingTokens:   -1,
		Captured:          time.Now(),
	}

	found := false
	if v := h.Get("x-ratelimit-remaining-requests"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rl.RemainingRequests = n
			found = true
		}
	}
	if v := h.Get("x-ratelimit-remaining-tokens"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rl.RemainingTokens = n
			found = true
		}
	}
	if d, ok := parseResetValue(h.Get("x-ratelimit-reset-requests")); ok {
		rl.ResetRequests = d
		found = true
	}
	if d, ok := parseResetValue(h.Get("x-ratelimit-reset-tokens")); ok {
		rl.ResetTokens = d
		found = true
	}

	return rl, found
}

// parseResetValue parses a reset hint, which providers send either as a Go
// style duration ("6m12s", "820ms") or as a bare number of seconds.
func parseResetValue(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d, true
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}

// ParseRetryAfter parses a Retry-After header into a duration.
// Supports both delta-seconds and HTTP-date forms; returns zero when absent
// or unparsable.
func ParseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// RateLimitSource is an optional interface for providers that expose the
// most recent rate-limit snapshot observed on a response. The client checks
// it before each attempt to surface low-quota warnings.
type RateLimitSource interface {
	LastRateLimit() (RateLimit, bool)
}
