package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Provider is the interface that remote-API providers must implement.
// Providers SHOULD be safe for concurrent calls.
// If a provider cannot be concurrent-safe, it MUST document this.
type Provider interface {
	// ID returns the provider identifier (e.g., "openai").
	ID() string

	// Models returns the list of models available from this provider.
	Models() []ModelInfo

	// Supports reports whether the provider supports the given feature.
	Supports(feature Feature) bool

	// Chat sends a non-streaming chat request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// StreamChat sends a streaming chat request.
	StreamChat(ctx context.Context, req *ChatRequest) (*ChatStream, error)
}

// ImageEditor is an optional interface for providers that support image
// editing.
type ImageEditor interface {
	// EditImage submits an image plus prompt to the remote edit endpoint and
	// returns the normalized result.
	EditImage(ctx context.Context, req *ImageEditRequest) (*ImageRef, error)
}

// Client is the main entry point for interacting with providers.
// Client is safe for concurrent use.
type Client struct {
	provider  Provider
	telemetry TelemetryHook
	retry     RetryPolicy
	lowWater  int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Client with the given provider and options.
func NewClient(p Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:  p,
		telemetry: NoopTelemetryHook{},
		retry:     DefaultRetryPolicy(),
		lowWater:  DefaultLowWaterMark,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTelemetry sets the telemetry hook for the client.
func WithTelemetry(h TelemetryHook) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.telemetry = h
		}
	}
}

// WithRetryPolicy sets the retry policy for the client.
func WithRetryPolicy(r RetryPolicy) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.retry = r
		}
	}
}

// WithLowWaterMark sets the remaining-request threshold for rate-limit
// warnings. A negative value disables the warnings.
func WithLowWaterMark(n int) ClientOption {
	return func(c *Client) {
		c.lowWater = n
	}
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Chat returns a ChatBuilder for constructing and executing a chat request.
func (c *Client) Chat(model ModelID) *ChatBuilder {
	return &ChatBuilder{
		client: c,
		req: ChatRequest{
			Model: model,
		},
	}
}

// warnIfQuotaLow surfaces a rate-limit warning through telemetry when the
// provider's last observed remaining quota is below the low-water mark.
// Advisory only; never blocks the call.
func (c *Client) warnIfQuotaLow(requestID string, model ModelID) {
	if c.lowWater < 0 {
		return
	}
	src, ok := c.provider.(RateLimitSource)
	if !ok {
		return
	}
	rl, ok := src.LastRateLimit()
	if !ok || !rl.LowWater(c.lowWater) {
		return
	}
	c.telemetry.OnRateLimit(RateLimitEvent{
		RequestID: requestID,
		Provider:  c.provider.ID(),
		Model:     model,
		RateLimit: rl,
	})
}

// ChatBuilder provides a fluent API for building chat requests.
// ChatBuilder is NOT thread-safe and should not be shared across goroutines.
type ChatBuilder struct {
	client *Client
	req    ChatRequest
}

// System appends a system message.
func (b *ChatBuilder) System(s string) *ChatBuilder {
	b.req.Messages = append(b.req.Messages, Message{Role: RoleSystem, Content: s})
	return b
}

// User appends a user message.
func (b *ChatBuilder) User(s string) *ChatBuilder {
	b.req.Messages = append(b.req.Messages, Message{Role: RoleUser, Content: s})
	return b
}

// Assistant appends an assistant message.
func (b *ChatBuilder) Assistant(s string) *ChatBuilder {
	b.req.Messages = append(b.req.Messages, Message{Role: RoleAssistant, Content: s})
	return b
}

// Messages appends a sequence of prepared messages, e.g. from a Memory.
func (b *ChatBuilder) Messages(msgs ...Message) *ChatBuilder {
	b.req.Messages = append(b.req.Messages, msgs...)
	return b
}

// Temperature sets the temperature parameter.
func (b *ChatBuilder) Temperature(v float32) *ChatBuilder {
	b.req.Temperature = &v
	return b
}

// MaxTokens sets the maximum tokens parameter.
func (b *ChatBuilder) MaxTokens(n int) *ChatBuilder {
	b.req.MaxTokens = &n
	return b
}

// validate checks that the request is valid.
func (b *ChatBuilder) validate() error {
	if b.req.Model == "" {
		return ErrModelRequired
	}
	if len(b.req.Messages) == 0 {
		return ErrNoMessages
	}
	for _, msg := range b.req.Messages {
		if msg.Content == "" {
			return ErrNoMessages
		}
	}
	return nil
}

// GetResponse executes the chat request and returns the response.
// It applies validation, telemetry, and retry logic: transient failures
// (rate limit, server error, network failure) are retried with backoff up
// to the policy's attempt cap; everything else fails immediately.
func (b *ChatBuilder) GetResponse(ctx context.Context) (*ChatResponse, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	start := time.Now()
	providerID := b.client.provider.ID()

	b.client.telemetry.OnRequestStart(RequestStartEvent{
		RequestID: requestID,
		Provider:  providerID,
		Model:     b.req.Model,
		Start:     start,
	})

	var resp *ChatResponse
	var err error
	attempts := 0

retryLoop:
	for attempt := 0; ; attempt++ {
		b.client.warnIfQuotaLow(requestID, b.req.Model)

		attempts = attempt + 1
		resp, err = b.client.provider.Chat(ctx, &b.req)
		if err == nil {
			break
		}

		delay, shouldRetry := b.client.retry.NextDelay(attempt, err)
		if !shouldRetry {
			break
		}

		// Wait before the next attempt, respecting context cancellation.
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retryLoop
		case <-time.After(delay):
		}
	}

	usage := TokenUsage{}
	if resp != nil {
		usage = resp.Usage
	}
	b.client.telemetry.OnRequestEnd(RequestEndEvent{
		RequestID: requestID,
		Provider:  providerID,
		Model:     b.req.Model,
		Start:     start,
		End:       time.Now(),
		Attempts:  attempts,
		Usage:     usage,
		Err:       err,
	})

	return resp, err
}

// Stream executes the chat request and returns a streaming response.
// It applies validation, telemetry, and retry logic: transient setup
// failures (before the stream body opens) are retried with backoff like
// GetResponse. Once the stream is established it is not retried; a failure
// mid-stream surfaces on the stream's Err channel.
func (b *ChatBuilder) Stream(ctx context.Context) (*ChatStream, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	start := time.Now()
	providerID := b.client.provider.ID()

	b.client.telemetry.OnRequestStart(RequestStartEvent{
		RequestID: requestID,
		Provider:  providerID,
		Model:     b.req.Model,
		Start:     start,
	})

	var stream *ChatStream
	var err error
	attempts := 0

retryLoop:
	for attempt := 0; ; attempt++ {
		b.client.warnIfQuotaLow(requestID, b.req.Model)

		attempts = attempt + 1
		stream, err = b.client.provider.StreamChat(ctx, &b.req)
		if err == nil {
			break
		}

		delay, shouldRetry := b.client.retry.NextDelay(attempt, err)
		if !shouldRetry {
			break
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retryLoop
		case <-time.After(delay):
		}
	}

	if err != nil {
		b.client.telemetry.OnRequestEnd(RequestEndEvent{
			RequestID: requestID,
			Provider:  providerID,
			Model:     b.req.Model,
			Start:     start,
			End:       time.Now(),
			Attempts:  attempts,
			Err:       err,
		})
		return nil, err
	}

	return wrapStreamWithTelemetry(stream, b.client.telemetry, requestID, providerID, b.req.Model, start, attempts), nil
}

// wrapStreamWithTelemetry wraps a ChatStream to emit telemetry on completion.
func wrapStreamWithTelemetry(
	stream *ChatStream,
	hook TelemetryHook,
	requestID string,
	provider string,
	model ModelID,
	start time.Time,
	attempts int,
) *ChatStream {
	finalCh := make(chan *ChatResponse, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(finalCh)
		defer close(errCh)

		var finalResp *ChatResponse
		var finalErr error

		// Providers buffer their result and then close every channel, so
		// both may be ready at once. Drain until both are closed, nil-ing
		// out closed channels, and forward whatever arrived.
		upstreamFinal, upstreamErr := stream.Final, stream.Err
		for upstreamFinal != nil || upstreamErr != nil {
			select {
			case resp, ok := <-upstreamFinal:
				if !ok {
					upstreamFinal = nil
					continue
				}
				if resp != nil {
					finalResp = resp
					finalCh <- resp
				}
			case err, ok := <-upstreamErr:
				if !ok {
					upstreamErr = nil
					continue
				}
				if err != nil {
					finalErr = err
					errCh <- err
				}
			}
		}

		usage := TokenUsage{}
		if finalResp != nil {
			usage = finalResp.Usage
		}
		hook.OnRequestEnd(RequestEndEvent{
			RequestID: requestID,
			Provider:  provider,
			Model:     model,
			Start:     start,
			End:       time.Now(),
			Attempts:  attempts,
			Usage:     usage,
			Err:       finalErr,
		})
	}()

	return &ChatStream{
		Ch:    stream.Ch,
		Err:   errCh,
		Final: finalCh,
	}
}
