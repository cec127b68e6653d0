package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/glazeworks/glaze/core"
	"github.com/glazeworks/glaze/providers/internal/sse"
)

// doStreamChat performs a streaming chat completion request.
func (p *OpenAI) doStreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	oReq := buildRequest(req, true)

	body, err := json.Marshal(oReq)
	if err != nil {
		return nil, newDecodeError(err)
	}

	url := p.config.BaseURL + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError(err)
	}

	for key, values := range p.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}

	p.captureRateLimit(resp.Header)

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalizeError(resp.StatusCode, respBody, resp.Header)
	}

	chunkCh := make(chan core.ChatChunk, 100)
	errCh := make(chan error, 1)
	finalCh := make(chan *core.ChatResponse, 1)

	go p.processSSEStream(ctx, resp.Body, chunkCh, errCh, finalCh)

	return &core.ChatStream{
		Ch:    chunkCh,
		Err:   errCh,
		Final: finalCh,
	}, nil
}

// processSSEStream reads the SSE stream and emits deltas in arrival order.
//
// The body is released on every exit path. A frame that fails to decode is
// logged and skipped; the stream continues with the next frame. Once the
// decoder reports the [DONE] terminator, no further frames are processed.
func (p *OpenAI) processSSEStream(
	ctx context.Context,
	body io.ReadCloser,
	chunkCh chan<- core.ChatChunk,
	errCh chan<- error,
	finalCh chan<- *core.ChatResponse,
) {
	defer body.Close()
	defer close(chunkCh)
	defer close(errCh)
	defer close(finalCh)

	dec := sse.NewDecoder()
	buf := make([]byte, 4096)

	var responseID string
	var responseModel string
	var usage *openAIUsage

	for !dec.Done() {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				var chunk openAIStreamChunk
				if jsonErr := json.Unmarshal(frame, &chunk); jsonErr != nil {
					// Malformed frame: survivable, drop it and keep decoding.
					p.config.Logger.Warn("discarding malformed stream frame",
						"provider", "openai",
						"error", jsonErr,
					)
					continue
				}

				if chunk.ID != "" {
					responseID = chunk.ID
				}
				if chunk.Model != "" {
					responseModel = chunk.Model
				}
				if chunk.Usage != nil {
					usage = chunk.Usage
				}

				for _, choice := range chunk.Choices {
					if choice.Delta.Content == "" {
						continue
					}
					select {
					case chunkCh <- core.ChatChunk{Delta: choice.Delta.Content}:
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					}
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			errCh <- newNetworkError(err)
			return
		}
	}

	finalResp := &core.ChatResponse{
		ID:    responseID,
		Model: core.ModelID(responseModel),
	}
	if usage != nil {
		finalResp.Usage = core.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}

	finalCh <- finalResp
}
