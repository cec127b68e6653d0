// Package core provides the Glaze SDK client and types for calling a
// generative-AI HTTP API.
//
// The primary entry point is [Client], which wraps a [Provider] and adds
// telemetry, retry logic, and a fluent builder API:
//
//	provider := openai.New(os.Getenv("OPENAI_API_KEY"))
//	client := core.NewClient(provider,
//	    core.WithTelemetry(myTelemetryHook),
//	    core.WithRetryPolicy(core.DefaultRetryPolicy()),
//	)
//
// # ChatBuilder
//
// The [ChatBuilder] provides a fluent API for constructing chat requests:
//
//	resp, err := client.Chat("gpt-4o-mini").
//	    System("You are a helpful assistant.").
//	    User("Hello!").
//	    Temperature(0.7).
//	    GetResponse(ctx)
//
// ChatBuilder is NOT thread-safe. Each goroutine should create its own
// builder instance.
//
// # Streaming
//
// Use [ChatBuilder.Stream] for streaming responses:
//
//	stream, err := client.Chat(model).User("Tell me a story.").Stream(ctx)
//	if err != nil {
//	    return err
//	}
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Delta)
//	}
//
// The [ChatStream] type provides three channels:
//   - Ch: emits text deltas in arrival order
//   - Err: emits at most one error
//   - Final: emits the complete response with usage
//
// Use [DrainStream] as a convenience to accumulate all chunks into a final
// response.
//
// # Conversations
//
// [Conversation] maintains a bounded, ordered message history and rebuilds
// the full context on every send:
//
//	conv := core.NewConversation(client, "gpt-4o-mini",
//	    core.WithSystemMessage("You are terse."),
//	    core.WithMaxMessages(32),
//	)
//	resp, err := conv.Send("What is SSE?")
//
// A Conversation is not safe for concurrent Send calls; keep at most one
// call in flight per instance.
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes. Transient
// failures ([ErrRateLimited], [ErrServer], [ErrNetwork]) are retried by the
// client up to the configured attempt cap; everything else surfaces on first
// occurrence. Use errors.Is to check error types:
//
//	if errors.Is(err, core.ErrRateLimited) {
//	    // handle rate limiting
//	}
//
// # Thread Safety
//
// [Client] is safe for concurrent use across goroutines.
// [ChatBuilder] is NOT thread-safe.
// [ChatStream] channels may be read by one goroutine at a time.
// Providers SHOULD be safe for concurrent calls (check provider documentation).
package core
