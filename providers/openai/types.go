package openai

// openAIRequest represents a request to the chat completions API.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Stream      bool            `json:"stream,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
}

// openAIMessage represents a message in the wire format.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse represents a response from the chat completions API.
type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Created int64          `json:"created"`
	Object  string         `json:"object"` // "chat.completion"
	Choices []openAIChoice `json:"choices"`
	Usage   *openAIUsage   `json:"usage,omitempty"`
}

// openAIChoice represents a single choice in a response.
type openAIChoice struct {
	Index        int            `json:"index"`
	Message      *openAIRespMsg `json:"message,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
}

// openAIRespMsg represents the assistant message in a response.
type openAIRespMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIUsage represents token usage in a response.
type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Streaming response types for the SSE protocol.

// openAIStreamChunk represents a single chunk in a streaming response.
type openAIStreamChunk struct {
	ID      string               `json:"id"`
	Model   string               `json:"model"`
	Choices []openAIStreamChoice `json:"choices"`
	Usage   *openAIUsage         `json:"usage,omitempty"`
}

// openAIStreamChoice represents a single choice in a streaming chunk.
type openAIStreamChoice struct {
	Index        int               `json:"index"`
	Delta        openAIStreamDelta `json:"delta"`
	FinishReason *string           `json:"finish_reason,omitempty"`
}

// openAIStreamDelta represents the delta content in a streaming chunk.
type openAIStreamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}
