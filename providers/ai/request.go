package ai

// PromptRequest carries one fully rendered prompt to a provider adapter.
// Rendering (template expansion, file-based prompt composition) happens
// upstream; by the time a request reaches an adapter it is plain text.
// A PromptRequest is immutable once built — adapters read it, never write it.
type PromptRequest struct {
	// Provider is the registry key naming the adapter that should handle
	// this request. Resolved once per call; unknown keys fail before any
	// network activity.
	Provider string

	// System is the system prompt, already rendered by the caller.
	System string

	// Prompt holds the ordered user prompt fragments. Adapters join or map
	// them to message blocks according to their own wire format.
	Prompt []string

	// Images lists attached image references (local paths or URIs).
	// Adapters that do not support vision ignore them.
	Images []string

	// Mode is an optional tag describing which prompt sections were
	// assembled upstream. Adapters may use it to tweak request parameters;
	// most ignore it.
	Mode string

	// Context is an opaque caller-supplied identifier (an editor buffer,
	// a session id) echoed back through logging. Never sent on the wire.
	Context string
}

// Text returns the user prompt fragments joined into a single string,
// separated by blank lines. Convenience for adapters whose wire format
// takes one content string per message.
func (r *PromptRequest) Text() string {
	switch len(r.Prompt) {
	case 0:
		return ""
	case 1:
		return r.Prompt[0]
	}

	joined := r.Prompt[0]
	for _, fragment := range r.Prompt[1:] {
		joined += "\n\n" + fragment
	}
	return joined
}
