// Package anthropic implements the [ai.Adapter] for Anthropic's Messages
// API. Streaming responses arrive as an event-stream of `event:`/`data:`
// pairs (message_start → content_block_delta(s) → message_stop); the adapter
// decodes each data payload under its event label and completes the request
// early when message_stop arrives. It also interprets Anthropic's structured
// error bodies for failed HTTP responses.
package anthropic
