package sse

import (
	"testing"
)

// feedAll feeds the input split into chunks of the given size and collects
// every completed frame.
func feedAll(t *testing.T, input string, chunkSize int) []string {
	t.Helper()
	dec := NewDecoder()

	var frames []string
	for i := 0; i < len(input); i += chunkSize {
		end := i + chunkSize
		if end > len(input) {
			end = len(input)
		}
		for _, f := range dec.Feed([]byte(input[i:end])) {
			frames = append(frames, string(f))
		}
	}
	return frames
}

const sampleStream = "data: {\"a\":1}\n\ndata: {\"b\":2}\n\ndata: [DONE]\n\n"

func TestDecoderWholeStream(t *testing.T) {
	frames := feedAll(t, sampleStream, len(sampleStream))
	if len(frames) != 2 {
		t.Fatalf("frames = %v, want 2", frames)
	}
	if frames[0] != `{"a":1}` || frames[1] != `{"b":2}` {
		t.Errorf("frames = %v", frames)
	}
}

func TestDecoderArbitraryChunkBoundaries(t *testing.T) {
	// The decoded frames must not depend on where the transport splits the
	// bytes, including mid-line and byte-by-byte.
	for _, size := range []int{1, 2, 3, 5, 7, 16} {
		frames := feedAll(t, sampleStream, size)
		if len(frames) != 2 || frames[0] != `{"a":1}` || frames[1] != `{"b":2}` {
			t.Errorf("chunk size %d: frames = %v", size, frames)
		}
	}
}

func TestDecoderHoldsBackPartialLine(t *testing.T) {
	dec := NewDecoder()

	if frames := dec.Feed([]byte("data: {\"par")); len(frames) != 0 {
		t.Fatalf("partial line produced frames: %v", frames)
	}
	frames := dec.Feed([]byte("tial\":true}\n"))
	if len(frames) != 1 || string(frames[0]) != `{"partial":true}` {
		t.Fatalf("completed line frames = %v", frames)
	}
}

func TestDecoderTerminator(t *testing.T) {
	dec := NewDecoder()

	dec.Feed([]byte("data: {\"a\":1}\n"))
	if dec.Done() {
		t.Fatal("Done() = true before terminator")
	}

	frames := dec.Feed([]byte("data: [DONE]\ndata: {\"late\":1}\n"))
	if len(frames) != 0 {
		t.Errorf("frames after terminator = %v, want none", frames)
	}
	if !dec.Done() {
		t.Error("Done() = false after terminator")
	}

	// Further input is ignored entirely.
	if frames := dec.Feed([]byte("data: {\"more\":1}\n")); len(frames) != 0 {
		t.Errorf("Feed after done produced frames: %v", frames)
	}
}

func TestDecoderSkipsNoise(t *testing.T) {
	input := ": keep-alive comment\n\nevent: ping\ndata: {\"a\":1}\n\n"
	frames := feedAll(t, input, len(input))
	if len(frames) != 1 || frames[0] != `{"a":1}` {
		t.Errorf("frames = %v, want only the data frame", frames)
	}
}

func TestDecoderCRLF(t *testing.T) {
	input := "data: {\"a\":1}\r\ndata: [DONE]\r\n"
	frames := feedAll(t, input, len(input))
	if len(frames) != 1 || frames[0] != `{"a":1}` {
		t.Errorf("frames = %v", frames)
	}
}

func TestDecoderFramesAreCopies(t *testing.T) {
	dec := NewDecoder()
	frames := dec.Feed([]byte("data: first\n"))
	if len(frames) != 1 {
		t.Fatalf("frames = %v", frames)
	}
	saved := frames[0]

	// Feeding more data must not invalidate earlier frames.
	dec.Feed([]byte("data: second-frame-that-is-longer\n"))
	if string(saved) != "first" {
		t.Errorf("earlier frame mutated: %q", saved)
	}
}

func TestDecoderNoSpaceAfterPrefix(t *testing.T) {
	input := "data:{\"a\":1}\n"
	frames := feedAll(t, input, len(input))
	if len(frames) != 1 || frames[0] != `{"a":1}` {
		t.Errorf("frames = %v, want prefix without space accepted", frames)
	}
}
