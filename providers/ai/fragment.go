package ai

import "encoding/json"

// Fragment is one incrementally decoded piece of a provider response,
// delivered to the caller through [Handlers.OnChunk].
type Fragment struct {
	// Event is the event-stream label that was active when this fragment
	// was decoded ("content_block_delta", "message_start", ...). Empty for
	// providers whose streams carry data lines only.
	Event string `json:"event,omitempty"`

	// Text is the incremental text delta, when the payload carries one.
	// Lifecycle fragments (message_start and friends) leave it empty.
	Text string `json:"text,omitempty"`

	// Raw is the decoded provider payload for callers that need fields
	// beyond the text delta. May be nil for synthetic fragments.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Handlers are the two callbacks a caller supplies for one request.
// The caller retains ownership; the dispatcher holds a reference only for
// the duration of the request.
//
// OnChunk is invoked zero or more times, in arrival order, never
// concurrently. OnComplete is invoked exactly once per request and is
// strictly the last callback observed; a nil error means the request
// finished normally. Either callback may be nil when the caller does not
// care about that signal.
type Handlers struct {
	OnChunk    func(Fragment)
	OnComplete func(error)
}
