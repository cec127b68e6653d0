// Package providers contains remote-API provider implementations for Glaze.
//
// Each provider is implemented in its own subpackage (e.g.,
// providers/openai). Providers implement the core.Provider interface.
//
// # Provider Interface
//
// All providers must implement core.Provider:
//
//	type Provider interface {
//	    ID() string
//	    Models() []ModelInfo
//	    Supports(feature Feature) bool
//	    Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
//	    StreamChat(ctx context.Context, req *ChatRequest) (*ChatStream, error)
//	}
//
// Providers with an image edit endpoint additionally implement
// core.ImageEditor.
//
// # Concurrency
//
// Providers SHOULD be safe for concurrent calls. If a provider cannot be
// concurrent-safe, it MUST document this limitation.
//
// # Streaming
//
// StreamChat returns a *ChatStream (not a raw channel) to carry errors and
// the final response consistently. Providers MUST:
//   - Close all channels (Ch, Err, Final) when finished
//   - Terminate promptly on context cancellation
//   - Release the response body on every exit path
//   - Send at most one error on Err
//   - Send exactly one response on Final (or zero on setup failure)
package providers

import "github.com/glazeworks/glaze/core"

// Re-export core types for convenience.
// Provider implementations can import just the providers package.
type (
	// Provider is the interface that remote-API providers must implement.
	Provider = core.Provider

	// ImageEditor is the optional interface for image edit support.
	ImageEditor = core.ImageEditor

	// Feature represents a capability that a provider may support.
	Feature = core.Feature

	// ModelInfo describes a model available from a provider.
	ModelInfo = core.ModelInfo

	// ModelID is a string identifier for a model.
	ModelID = core.ModelID

	// ChatRequest represents a request to a chat model.
	ChatRequest = core.ChatRequest

	// ChatResponse represents a response from a chat model.
	ChatResponse = core.ChatResponse

	// ChatStream represents a streaming response from a provider.
	ChatStream = core.ChatStream

	// ChatChunk represents an incremental streaming response.
	ChatChunk = core.ChatChunk

	// Message represents a single message in a conversation.
	Message = core.Message

	// Role represents a message participant role.
	Role = core.Role

	// TokenUsage tracks token consumption for a request.
	TokenUsage = core.TokenUsage

	// ProviderError represents an error returned by a provider.
	ProviderError = core.ProviderError
)

// Re-export feature constants.
const (
	FeatureChat          = core.FeatureChat
	FeatureChatStreaming = core.FeatureChatStreaming
	FeatureImageEdit     = core.FeatureImageEdit
)

// Re-export role constants.
const (
	RoleSystem    = core.RoleSystem
	RoleUser      = core.RoleUser
	RoleAssistant = core.RoleAssistant
)

// Re-export sentinel errors.
var (
	ErrUnauthorized      = core.ErrUnauthorized
	ErrRateLimited       = core.ErrRateLimited
	ErrBadRequest        = core.ErrBadRequest
	ErrServer            = core.ErrServer
	ErrNetwork           = core.ErrNetwork
	ErrDecode            = core.ErrDecode
	ErrShapeUnrecognized = core.ErrShapeUnrecognized
	ErrModelRequired     = core.ErrModelRequired
	ErrNoMessages        = core.ErrNoMessages
)
