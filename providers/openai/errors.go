package openai

import (
	"encoding/json"
	"net/http"

	"github.com/glazeworks/glaze/core"
)

// openAIErrorResponse represents an error response envelope:
// {"error":{"message":"...","type":"...","code":"..."}}
type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// normalizeError converts an HTTP error response to a ProviderError with
// the appropriate sentinel. Rate-limited responses carry the server's
// Retry-After hint when one was sent.
func normalizeError(status int, body []byte, header http.Header) error {
	var errResp openAIErrorResponse
	_ = json.Unmarshal(body, &errResp)

	message := errResp.Error.Message
	if message == "" {
		message = http.StatusText(status)
	}

	code := errResp.Error.Code
	if code == "" {
		code = errResp.Error.Type
	}

	pe := &core.ProviderError{
		Provider:  "openai",
		Status:    status,
		RequestID: header.Get("x-request-id"),
		Code:      code,
		Message:   message,
		Err:       sentinelForStatus(status),
	}

	if status == http.StatusTooManyRequests {
		pe.RetryAfter = core.ParseRetryAfter(header)
	}

	return pe
}

// sentinelForStatus maps an HTTP status code to a core sentinel error.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status >= 500:
		return core.ErrServer
	default:
		return core.ErrBadRequest
	}
}

// newNetworkError creates a ProviderError for network-level failures.
func newNetworkError(err error) error {
	return &core.ProviderError{
		Provider: "openai",
		Message:  err.Error(),
		Err:      core.ErrNetwork,
	}
}

// newDecodeError creates a ProviderError for JSON decode failures.
func newDecodeError(err error) error {
	return &core.ProviderError{
		Provider: "openai",
		Message:  err.Error(),
		Err:      core.ErrDecode,
	}
}
