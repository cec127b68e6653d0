package core

import (
	"log/slog"
	"time"
)

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, or tracing.
//
// Event types are designed to NEVER include sensitive data: API keys are
// never included (they live in core.Secret), and neither prompt content nor
// model output is exposed. Only operational metadata (provider, model,
// timing, token counts, rate-limit counters) is carried, so telemetry can
// be logged or shipped to monitoring systems without credential or privacy
// exposure. Keep it that way when extending these types.
type TelemetryHook interface {
	// OnRequestStart is called when a request to a provider begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request to a provider completes.
	OnRequestEnd(e RequestEndEvent)

	// OnRateLimit is called before an attempt when the provider's remaining
	// quota has dropped below the client's low-water mark. Advisory only;
	// the attempt proceeds regardless.
	OnRateLimit(e RateLimitEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	RequestID string    // Client-generated correlation ID
	Provider  string    // Provider identifier (e.g., "openai")
	Model     ModelID   // Model being called
	Start     time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	RequestID string     // Client-generated correlation ID
	Provider  string     // Provider identifier
	Model     ModelID    // Model that was called
	Start     time.Time  // When the request started
	End       time.Time  // When the request completed
	Attempts  int        // Total attempts made, including the successful one
	Usage     TokenUsage // Token consumption
	Err       error      // Error if the request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// RateLimitEvent carries a low-quota warning.
type RateLimitEvent struct {
	RequestID string    // Client-generated correlation ID
	Provider  string    // Provider identifier
	Model     ModelID   // Model about to be called
	RateLimit RateLimit // The snapshot that tripped the low-water mark
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Use this as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// OnRateLimit does nothing.
func (NoopTelemetryHook) OnRateLimit(RateLimitEvent) {}

// SlogTelemetryHook logs request lifecycle events through log/slog.
type SlogTelemetryHook struct {
	Logger *slog.Logger // defaults to slog.Default() when nil
}

func (h SlogTelemetryHook) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// OnRequestStart logs the request start at debug level.
func (h SlogTelemetryHook) OnRequestStart(e RequestStartEvent) {
	h.logger().Debug("request start",
		"request_id", e.RequestID,
		"provider", e.Provider,
		"model", e.Model,
	)
}

// OnRequestEnd logs the request outcome.
func (h SlogTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	l := h.logger()
	if e.Err != nil {
		l.Warn("request failed",
			"request_id", e.RequestID,
			"provider", e.Provider,
			"model", e.Model,
			"attempts", e.Attempts,
			"duration", e.Duration(),
			"error", e.Err,
		)
		return
	}
	l.Info("request complete",
		"request_id", e.RequestID,
		"provider", e.Provider,
		"model", e.Model,
		"attempts", e.Attempts,
		"duration", e.Duration(),
		"total_tokens", e.Usage.TotalTokens,
	)
}

// OnRateLimit logs a low-quota warning.
func (h SlogTelemetryHook) OnRateLimit(e RateLimitEvent) {
	h.logger().Warn("rate limit quota low",
		"request_id", e.RequestID,
		"provider", e.Provider,
		"model", e.Model,
		"remaining_requests", e.RateLimit.RemainingRequests,
		"remaining_tokens", e.RateLimit.RemainingTokens,
		"reset_requests", e.RateLimit.ResetRequests,
	)
}

// Compile-time checks.
var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = SlogTelemetryHook{}
)
