package core

import (
	"net/http"
	"testing"
	"time"
)

func TestParseRateLimit(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-remaining-requests", "42")
	h.Set("x-ratelimit-remaining-tokens", "15000")
	h.Set("x-ratelimit-reset-requests", "6m12s")
	h.Set("x-ratelimit-reset-tokens", "30")

	rl, ok := ParseRateLimit(h)
	if !ok {
		t.Fatal("ParseRateLimit() ok = false, want true")
	}
	if rl.RemainingRequests != 42 {
		t.Errorf("RemainingRequests = %d, want 42", rl.RemainingRequests)
	}
	if rl.RemainingTokens != 15000 {
		t.Errorf("RemainingTokens = %d, want 15000", rl.RemainingTokens)
	}
	if rl.ResetRequests != 6*time.Minute+12*time.Second {
		t.Errorf("ResetRequests = %v, want 6m12s", rl.ResetRequests)
	}
	if rl.ResetTokens != 30*time.Second {
		t.Errorf("ResetTokens = %v, want 30s (bare seconds form)", rl.ResetTokens)
	}
}

func TestParseRateLimitAbsent(t *testing.T) {
	rl, ok := ParseRateLimit(http.Header{})
	if ok {
		t.Error("ParseRateLimit() ok = true for empty headers")
	}
	if rl.RemainingRequests != -1 || rl.RemainingTokens != -1 {
		t.Errorf("absent counters = %d/%d, want -1/-1", rl.RemainingRequests, rl.RemainingTokens)
	}
}

func TestRateLimitLowWater(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		threshold int
		want      bool
	}{
		{"below threshold", 2, 5, true},
		{"at threshold", 5, 5, true},
		{"above threshold", 6, 5, false},
		{"zero remaining", 0, 5, true},
		{"counter absent", -1, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := RateLimit{RemainingRequests: tt.remaining}
			if got := rl.LowWater(tt.threshold); got != tt.want {
				t.Errorf("LowWater(%d) = %v, want %v", tt.threshold, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "12")
	if got := ParseRetryAfter(h); got != 12*time.Second {
		t.Errorf("ParseRetryAfter(delta-seconds) = %v, want 12s", got)
	}

	h.Set("Retry-After", time.Now().Add(30*time.Second).UTC().Format(http.TimeFormat))
	got := ParseRetryAfter(h)
	if got <= 0 || got > 31*time.Second {
		t.Errorf("ParseRetryAfter(http-date) = %v, want roughly 30s", got)
	}

	h.Set("Retry-After", "garbage")
	if got := ParseRetryAfter(h); got != 0 {
		t.Errorf("ParseRetryAfter(garbage) = %v, want 0", got)
	}

	if got := ParseRetryAfter(http.Header{}); got != 0 {
		t.Errorf("ParseRetryAfter(absent) = %v, want 0", got)
	}
}
