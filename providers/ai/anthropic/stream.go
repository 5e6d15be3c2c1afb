package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/leofalp/airelay/core/parse"
	"github.com/leofalp/airelay/providers/ai"
)

// Anthropic SSE lifecycle:
//
//	message_start → content_block_start → content_block_delta(s) →
//	content_block_stop → message_delta → message_stop

// DecodeFragment implements [ai.StreamDecoder]. Each data payload is decoded
// under the event label carried by the stream. Text deltas produce fragments
// with their incremental text; lifecycle events (message_start,
// content_block_start, message_delta, ...) produce fragments with the raw
// payload only, so callers can observe the full protocol when they care.
// message_stop completes the request early — Anthropic signals end-of-stream
// in-band, before the transport observes closure. Payloads that fail to
// decode even after repair are skipped for forward compatibility with future
// event additions.
func (a *Adapter) DecodeFragment(data string, event string, sink *ai.Sink) {
	var payload streamEvent
	if err := parse.Unmarshal([]byte(data), &payload); err != nil {
		return
	}

	// Streams from older API versions omit the event: label; the payload's
	// own type field carries the same value.
	if event == "" {
		event = payload.Type
	}

	switch event {
	case "ping":
		// Keep-alive, nothing to deliver.

	case "message_stop":
		sink.Complete(nil)

	case "error":
		message := "unknown stream error"
		if payload.Error != nil {
			message = payload.Error.Message
		}
		sink.Complete(fmt.Errorf("anthropic stream error: %s", message))

	case "content_block_delta":
		if payload.Delta == nil {
			return
		}
		text := payload.Delta.Text
		if payload.Delta.Type == "thinking_delta" {
			text = payload.Delta.Thinking
		}
		sink.Chunk(ai.Fragment{Event: event, Text: text, Raw: json.RawMessage(data)})

	default:
		// message_start, content_block_start, content_block_stop,
		// message_delta, and anything Anthropic adds later: deliver the
		// payload under its label and let the caller decide.
		sink.Chunk(ai.Fragment{Event: event, Raw: json.RawMessage(data)})
	}
}

// DecodeFullResponse implements [ai.Adapter] for non-streaming requests:
// every text block in the completed message becomes one fragment.
func (a *Adapter) DecodeFullResponse(body []byte, sink *ai.Sink) {
	var response messagesResponse
	if err := parse.Unmarshal(body, &response); err != nil {
		return
	}

	for _, block := range response.Content {
		if block.Type == "text" && block.Text != "" {
			sink.Chunk(ai.Fragment{Text: block.Text, Raw: body})
		}
	}
}

// TransportErrorMessage implements [ai.TransportErrorReporter] by decoding
// Anthropic's structured error body. Bodies that are not the documented
// error shape fall back to the generic message.
func (a *Adapter) TransportErrorMessage(status int, body []byte) string {
	var response errorResponse
	if err := parse.Unmarshal(body, &response); err == nil && response.Error != nil && response.Error.Message != "" {
		return fmt.Sprintf("anthropic: %s: %s (status %d)", response.Error.Type, response.Error.Message, status)
	}
	return ai.FormatTransportError(status, body)
}

var _ ai.Adapter = (*Adapter)(nil)
var _ ai.StreamDecoder = (*Adapter)(nil)
var _ ai.TransportErrorReporter = (*Adapter)(nil)
