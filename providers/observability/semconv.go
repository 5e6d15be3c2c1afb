package observability

// Semantic conventions for observability attributes. These constants define
// standard attribute names to ensure consistency across components.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "openai", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMStreaming reports whether the request uses a streaming response
	AttrLLMStreaming = "llm.streaming"
)

// --- Dispatch Attributes ---

const (
	// AttrJobID is the unique identifier of one in-flight request
	AttrJobID = "job.id"

	// AttrJobState is the dispatcher state machine state for the job
	AttrJobState = "job.state"

	// AttrSpoolPath is the on-disk path of the spooled request body
	AttrSpoolPath = "spool.path"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPResponseBodySize is the size of the response body in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)
