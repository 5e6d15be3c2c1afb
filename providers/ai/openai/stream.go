package openai

import (
	"encoding/json"

	"github.com/leofalp/airelay/core/parse"
	"github.com/leofalp/airelay/providers/ai"
)

// doneSentinel terminates OpenAI-compatible streams ahead of transport
// closure.
const doneSentinel = "[DONE]"

// DecodeFragment implements [ai.StreamDecoder]. OpenAI streams carry data
// lines only, so event is empty and ignored. Each payload is one
// chat.completion.chunk; the `[DONE]` sentinel completes the request early.
// Undecodable payloads are skipped.
func (a *Adapter) DecodeFragment(data string, event string, sink *ai.Sink) {
	if data == doneSentinel {
		sink.Complete(nil)
		return
	}

	var chunk chunkResponse
	if err := parse.Unmarshal([]byte(data), &chunk); err != nil {
		return
	}

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			sink.Chunk(ai.Fragment{Event: event, Text: choice.Delta.Content, Raw: json.RawMessage(data)})
		}
	}
}

// DecodeFullResponse implements [ai.Adapter] for non-streaming requests.
func (a *Adapter) DecodeFullResponse(body []byte, sink *ai.Sink) {
	var response chatResponse
	if err := parse.Unmarshal(body, &response); err != nil {
		return
	}

	for _, choice := range response.Choices {
		if choice.Message.Content != "" {
			sink.Chunk(ai.Fragment{Text: choice.Message.Content, Raw: body})
		}
	}
}

var _ ai.Adapter = (*Adapter)(nil)
var _ ai.StreamDecoder = (*Adapter)(nil)
