package ai

// Adapter is the core interface every provider implementation must satisfy.
// It covers the two ends of a request's lifecycle: translating a generic
// [PromptRequest] into a provider-specific [WireSpec], and decoding wire
// responses back into generic fragments.
//
// Streaming adapters additionally implement exactly one of [StreamDecoder]
// or [RawDecoder]. Adapters may also implement [TransportErrorReporter] to
// interpret failed HTTP responses in provider-specific terms.
type Adapter interface {
	// Name reports the registry key this adapter answers to.
	Name() string

	// BuildWireSpec translates request into a ready-to-send wire request.
	// It is a pure function: no I/O, no mutation of request. Missing
	// required configuration (typically the API key) returns a
	// [*ConfigError] before any network or disk activity happens.
	BuildWireSpec(request *PromptRequest) (*WireSpec, error)

	// DecodeFullResponse decodes a complete non-streaming response body.
	// Invoked exactly once per request, and only when the wire spec was
	// built with Stream=false. The adapter emits fragments through sink;
	// the dispatcher completes the request afterwards.
	DecodeFullResponse(body []byte, sink *Sink)
}

// StreamDecoder is implemented by adapters whose providers answer with a
// line-oriented text event stream (`event:` / `data:` pairs). DecodeFragment
// is invoked once per data line, together with the event label most recently
// seen on the stream (empty when the stream carries data lines only).
//
// The adapter may emit zero or more fragments per line, and may complete the
// sink early when the wire protocol signals end-of-stream out of band (for
// example Anthropic's message_stop event or OpenAI's [DONE] sentinel).
type StreamDecoder interface {
	DecodeFragment(data string, event string, sink *Sink)
}

// RawDecoder is implemented by adapters whose providers use a framing that
// is not event-stream based (for example Ollama's newline-delimited JSON).
// When present it fully replaces the event-stream parser: raw transport
// chunks are handed to DecodeRaw as they arrive, and the adapter owns all
// reassembly state. Mutually exclusive with [StreamDecoder]; the [Registry]
// enforces this at registration time.
type RawDecoder interface {
	DecodeRaw(chunk []byte, sink *Sink)
}

// TransportErrorReporter is implemented by adapters that can interpret a
// failed HTTP response (status >= 400) in provider-specific terms, typically
// by decoding the provider's structured error body. Adapters without it get
// the generic [FormatTransportError] message.
type TransportErrorReporter interface {
	TransportErrorMessage(status int, body []byte) string
}
