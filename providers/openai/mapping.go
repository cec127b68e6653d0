package openai

import "github.com/glazeworks/glaze/core"

// buildRequest converts a core.ChatRequest to the wire format.
func buildRequest(req *core.ChatRequest, stream bool) *openAIRequest {
	out := &openAIRequest{
		Model:       string(req.Model),
		Messages:    make([]openAIMessage, 0, len(req.Messages)),
		Stream:      stream,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, openAIMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return out
}

// mapResponse converts a wire response to a core.ChatResponse.
// Only the first choice is used.
func mapResponse(resp *openAIResponse) (*core.ChatResponse, error) {
	out := &core.ChatResponse{
		ID:    resp.ID,
		Model: core.ModelID(resp.Model),
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil {
		out.Output = resp.Choices[0].Message.Content
	}

	if resp.Usage != nil {
		out.Usage = core.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out, nil
}
