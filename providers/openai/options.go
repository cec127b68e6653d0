// Package openai provides an OpenAI-compatible API provider implementation
// for Glaze.
package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/glazeworks/glaze/core"
)

// DefaultBaseURL is the default base URL for the OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds the configuration for the OpenAI provider.
type Config struct {
	// APIKey is the bearer credential for authentication.
	APIKey core.Secret

	// BaseURL is the base URL for the API. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use for requests.
	HTTPClient *http.Client

	// Headers are additional headers to include in requests.
	Headers http.Header

	// Timeout is the request timeout. Zero means no timeout.
	Timeout time.Duration

	// Logger receives per-frame decode warnings during streaming.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Option is a functional option for configuring the OpenAI provider.
type Option func(*Config)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeaders sets additional headers to include in requests.
func WithHeaders(headers http.Header) Option {
	return func(c *Config) {
		c.Headers = headers
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLogger sets the logger for streaming decode warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
