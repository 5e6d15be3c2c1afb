package sse

import (
	"bytes"
	"strings"

	"github.com/leofalp/airelay/providers/ai"
)

// maxBufferedLine caps the partial-line buffer (1 MB). Provider events can
// carry long completions in a single data line; anything beyond this is a
// broken stream and the oversized line is dropped rather than grown without
// bound.
const maxBufferedLine = 1 * 1024 * 1024

// Parser consumes a streaming response as an unbounded sequence of lines and
// forwards each data payload to the adapter's [ai.StreamDecoder], labelled
// with the current event name. It is restartable per request, never reused
// across requests: the event label and the partial-line buffer are instance
// fields, so no state can leak between concurrent streams.
type Parser struct {
	decoder ai.StreamDecoder
	sink    *ai.Sink

	// event is the value of the most recent `event:` line. It labels every
	// following `data:` line until the next `event:` line replaces it.
	event string

	// partial holds an unterminated line carried across chunk boundaries.
	partial []byte
}

// New creates a parser for one request's stream.
func New(decoder ai.StreamDecoder, sink *ai.Sink) *Parser {
	return &Parser{decoder: decoder, sink: sink}
}

// Feed consumes one transport chunk. Chunks may split lines at any byte
// position; only complete lines are parsed, the remainder is buffered for
// the next chunk.
func (p *Parser) Feed(chunk []byte) {
	p.partial = append(p.partial, chunk...)

	for {
		newline := bytes.IndexByte(p.partial, '\n')
		if newline < 0 {
			break
		}
		line := string(bytes.TrimSuffix(p.partial[:newline], []byte("\r")))
		p.partial = p.partial[newline+1:]
		p.parseLine(line)
	}

	if len(p.partial) > maxBufferedLine {
		p.partial = nil
	}
}

// Flush parses a final unterminated line, if any. The dispatcher calls it
// when the transport reports stream closure, so streams that omit the last
// newline still deliver their final payload.
func (p *Parser) Flush() {
	if len(p.partial) == 0 {
		return
	}
	line := string(bytes.TrimSuffix(p.partial, []byte("\r")))
	p.partial = nil
	p.parseLine(line)
}

// parseLine dispatches one complete line. `event:` lines update the carried
// label and emit nothing; `data:` lines go to the decoder together with the
// label; everything else (blank separators, `:` comments, id/retry fields)
// is ignored.
func (p *Parser) parseLine(line string) {
	if name, ok := strings.CutPrefix(line, "event: "); ok && name != "" {
		p.event = name
		return
	}

	if data, ok := strings.CutPrefix(line, "data: "); ok && data != "" {
		p.decoder.DecodeFragment(data, p.event, p.sink)
	}
}
