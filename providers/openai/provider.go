package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/glazeworks/glaze/core"
)

// DefaultAPIKeyEnvVar is the environment variable name for the API key.
const DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

// ErrAPIKeyNotFound is returned when the API key environment variable is
// not set.
var ErrAPIKeyNotFound = errors.New("openai: OPENAI_API_KEY environment variable not set")

// NewFromEnv creates a new OpenAI provider using the OPENAI_API_KEY
// environment variable. This is a convenience factory for quick setup:
//
//	provider, err := openai.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := core.NewClient(provider)
func NewFromEnv(opts ...Option) (*OpenAI, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// OpenAI is a provider implementation for OpenAI-compatible APIs.
// OpenAI is safe for concurrent use.
type OpenAI struct {
	config Config

	mu     sync.RWMutex
	lastRL core.RateLimit
	hasRL  bool
}

// New creates a new OpenAI provider with the given API key and options.
func New(apiKey string, opts ...Option) *OpenAI {
	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout > 0 {
		// Copy the client so the caller's client keeps its own timeout.
		hc := *cfg.HTTPClient
		hc.Timeout = cfg.Timeout
		cfg.HTTPClient = &hc
	}

	return &OpenAI{config: cfg}
}

// ID returns the provider identifier.
func (p *OpenAI) ID() string {
	return "openai"
}

// Models returns the list of available models.
func (p *OpenAI) Models() []core.ModelInfo {
	// Return a copy to prevent mutation.
	result := make([]core.ModelInfo, len(models))
	copy(result, models)
	return result
}

// Supports reports whether the provider supports the given feature.
func (p *OpenAI) Supports(feature core.Feature) bool {
	switch feature {
	case core.FeatureChat, core.FeatureChatStreaming, core.FeatureImageEdit:
		return true
	default:
		return false
	}
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *OpenAI) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())
	headers.Set("Content-Type", "application/json")

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// captureRateLimit records the rate-limit counters a response carried, for
// the client's low-quota warnings.
func (p *OpenAI) captureRateLimit(h http.Header) {
	rl, ok := core.ParseRateLimit(h)
	if !ok {
		return
	}
	p.mu.Lock()
	p.lastRL = rl
	p.hasRL = true
	p.mu.Unlock()
}

// LastRateLimit returns the most recent rate-limit snapshot.
// Implements core.RateLimitSource.
func (p *OpenAI) LastRateLimit() (core.RateLimit, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRL, p.hasRL
}

// Chat sends a non-streaming chat request.
func (p *OpenAI) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doChat(ctx, req)
}

// StreamChat sends a streaming chat request.
func (p *OpenAI) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	return p.doStreamChat(ctx, req)
}

// Compile-time checks.
var (
	_ core.Provider        = (*OpenAI)(nil)
	_ core.ImageEditor     = (*OpenAI)(nil)
	_ core.RateLimitSource = (*OpenAI)(nil)
)
