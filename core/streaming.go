package core

import (
	"context"
	"strings"
)

// ChatStream represents a streaming response from a provider.
//
// Channel Rules:
//   - Providers MUST close Ch, Err, and Final when finished
//   - On context cancellation, providers MUST terminate promptly and close channels
//   - Err channel emits at most one error
//   - Final channel emits exactly once on success (or zero times on setup failure)
//   - If providers cannot compute Usage for streaming, they MAY leave it zeroed
type ChatStream struct {
	// Ch emits text deltas in arrival order. Closed when the stream ends.
	Ch <-chan ChatChunk

	// Err emits at most one error. MUST be closed when the stream ends.
	Err <-chan error

	// Final is sent exactly once (or zero if setup fails) after stream
	// completion. Providers may send a partial ChatResponse with Output empty.
	Final <-chan *ChatResponse
}

// DrainStream accumulates all deltas and returns the final ChatResponse.
// Blocks until the stream completes or the context cancels.
//
// The concatenation of all deltas reconstructs the full assistant message;
// if the final response carries no Output, the accumulated deltas are used.
func DrainStream(ctx context.Context, s *ChatStream) (*ChatResponse, error) {
	if s == nil {
		return nil, ErrBadRequest
	}

	var accumulated strings.Builder
	var streamErr error
	var final *ChatResponse

	// Read until every channel is closed. Closed channels are nil-ed out so
	// the select stops spinning on them.
	ch, errCh, finalCh := s.Ch, s.Err, s.Final
	for ch != nil || errCh != nil || finalCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case chunk, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			accumulated.WriteString(chunk.Delta)

		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				streamErr = err
			}

		case resp, ok := <-finalCh:
			if !ok {
				finalCh = nil
				continue
			}
			if resp != nil {
				final = resp
			}
		}
	}

	if streamErr != nil {
		return nil, streamErr
	}

	if final == nil {
		final = &ChatResponse{Output: accumulated.String()}
	} else if final.Output == "" {
		final.Output = accumulated.String()
	}

	return final, nil
}
