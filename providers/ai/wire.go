package ai

// WireSpec is the fully resolved description of one outbound HTTP request,
// produced by [Adapter.BuildWireSpec] from a [PromptRequest]. It is owned
// exclusively by the dispatch invocation that created it and is never shared
// across requests.
//
// The body is kept as a structured value rather than serialized text; the
// spool layer serializes it to disk so the transport can stream large bodies
// from a file instead of holding them in memory.
type WireSpec struct {
	// URL is the absolute endpoint URL, method is always POST.
	URL string

	// Headers holds the request headers, including whatever credential
	// header the provider requires (x-api-key, Authorization, ...).
	Headers map[string]string

	// Proxy is an optional proxy URL for the call. Empty means direct.
	Proxy string

	// InsecureTLS disables certificate verification for this call. Used
	// for self-hosted providers behind self-signed certificates.
	InsecureTLS bool

	// Body is the request payload as a structured value, serialized to
	// JSON by the spool layer.
	Body any

	// Stream reports whether the provider will answer with an incremental
	// stream. When false the full response body is decoded in one pass
	// through [Adapter.DecodeFullResponse].
	Stream bool
}
