package anthropic

// Wire types for Anthropic's Messages API. Only the fields this adapter
// reads or writes are modelled; unknown response fields are ignored.

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
	Stream    bool      `json:"stream"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// streamEvent is the envelope carried by each SSE data payload. The Type
// field mirrors the `event:` label; both are present on the wire.
type streamEvent struct {
	Type  string       `json:"type"`
	Delta *eventDelta  `json:"delta,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

// eventDelta carries incremental content for content_block_delta events and
// the stop reason for message_delta events.
type eventDelta struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Thinking   string `json:"thinking,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// errorResponse is the body Anthropic returns on failed HTTP requests.
type errorResponse struct {
	Error *errorDetail `json:"error"`
}

// messagesResponse is the non-streaming response body.
type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}
