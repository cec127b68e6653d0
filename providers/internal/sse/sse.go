// Package sse decodes line-oriented server-sent event streams into discrete
// data frames.
//
// The wire format is the one used by OpenAI-style chat completion APIs:
// each event is a single line prefixed "data: ", blank lines and ":" comment
// lines are noise, and a literal "[DONE]" payload terminates the stream.
package sse

import "bytes"

// Terminator is the sentinel payload that ends a stream.
const Terminator = "[DONE]"

var dataPrefix = []byte("data:")

// Decoder reassembles "data:"-prefixed event frames from an incremental
// byte stream. It is a two-state machine: streaming, then done.
//
// Feed may be called with chunks split at arbitrary boundaries, including
// mid-line; a trailing partial line is held back in the carry-over buffer
// until a later chunk completes it, so a line known to be incomplete is
// never decoded. Once the terminator is seen the decoder is done for good:
// remaining buffered lines and all further input are ignored.
//
// Decoder is not safe for concurrent use.
type Decoder struct {
	buf  []byte
	done bool
}

// NewDecoder returns a Decoder in the streaming state with an empty buffer.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Done reports whether the terminator has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed appends a chunk of raw bytes and returns the payloads of any data
// frames completed by it, in arrival order. Returned slices are copies and
// remain valid across subsequent calls.
func (d *Decoder) Feed(chunk []byte) [][]byte {
	if d.done {
		return nil
	}

	d.buf = append(d.buf, chunk...)

	var frames [][]byte
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			// Trailing partial line: hold it back for the next chunk.
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]

		payload, ok := parseLine(line)
		if !ok {
			continue
		}
		if string(payload) == Terminator {
			d.done = true
			d.buf = nil
			return frames
		}
		frames = append(frames, append([]byte(nil), payload...))
	}
	return frames
}

// parseLine extracts the payload from a single line. Blank lines, comments,
// and anything without the data prefix are discarded.
func parseLine(line []byte) ([]byte, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] == ':' {
		return nil, false
	}
	if !bytes.HasPrefix(line, dataPrefix) {
		return nil, false
	}
	return bytes.TrimSpace(line[len(dataPrefix):]), true
}
