package anthropic

import (
	"os"
	"strings"

	"github.com/leofalp/airelay/providers/ai"
)

const (
	// defaultBaseURL is the canonical base URL for Anthropic's Messages API.
	defaultBaseURL = "https://api.anthropic.com/v1"

	// messagesEndpoint is the path for the Messages API endpoint.
	messagesEndpoint = "/messages"

	// anthropicVersion is the required anthropic-version header value.
	// Anthropic uses this to version-lock response formats independently
	// of the URL.
	anthropicVersion = "2023-06-01"

	defaultModel     = "claude-sonnet-4-5"
	defaultMaxTokens = 4096
)

// Adapter implements [ai.Adapter] and [ai.StreamDecoder] for Anthropic's
// Messages API. Use [New] to construct a ready-to-use instance.
type Adapter struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	proxy       string
	insecureTLS bool
	streaming   bool
}

// New returns an [Adapter] initialized from environment variables. It reads
// ANTHROPIC_API_KEY for authentication and ANTHROPIC_API_BASE_URL for the
// endpoint base (defaulting to https://api.anthropic.com/v1 when unset).
// Streaming is on by default.
func New() *Adapter {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:    os.Getenv("ANTHROPIC_API_KEY"),
		baseURL:   baseURL,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		streaming: true,
	}
}

// Name implements [ai.Adapter].
func (a *Adapter) Name() string { return "anthropic" }

// WithAPIKey overrides the API key read from ANTHROPIC_API_KEY and returns
// the adapter so calls can be chained.
func (a *Adapter) WithAPIKey(apiKey string) *Adapter {
	a.apiKey = apiKey
	return a
}

// WithBaseURL overrides the API base URL. Use this when targeting a proxy
// or local testing endpoint.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = baseURL
	return a
}

// WithModel overrides the default model.
func (a *Adapter) WithModel(model string) *Adapter {
	a.model = model
	return a
}

// WithProxy routes requests through the given proxy URL. insecureTLS
// additionally disables certificate verification, for proxies that
// re-encrypt with self-signed certificates.
func (a *Adapter) WithProxy(proxy string, insecureTLS bool) *Adapter {
	a.proxy = proxy
	a.insecureTLS = insecureTLS
	return a
}

// WithStreaming toggles streaming mode. When disabled the full response is
// decoded in one pass through [Adapter.DecodeFullResponse].
func (a *Adapter) WithStreaming(streaming bool) *Adapter {
	a.streaming = streaming
	return a
}

// BuildWireSpec implements [ai.Adapter]. It is pure: no I/O happens here,
// and a missing API key fails before anything touches disk or network.
func (a *Adapter) BuildWireSpec(request *ai.PromptRequest) (*ai.WireSpec, error) {
	if a.apiKey == "" {
		return nil, &ai.ConfigError{Provider: a.Name(), Reason: "ANTHROPIC_API_KEY is not set"}
	}

	content := []contentBlock{{Type: "text", Text: request.Text()}}
	for _, image := range request.Images {
		// Only fetchable references can go on the wire; local paths would
		// require reading the file here, and BuildWireSpec performs no I/O.
		if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
			content = append(content, contentBlock{
				Type:   "image",
				Source: &imageSource{Type: "url", URL: image},
			})
		}
	}

	body := &messagesRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    request.System,
		Messages:  []message{{Role: "user", Content: content}},
		Stream:    a.streaming,
	}

	return &ai.WireSpec{
		URL: a.baseURL + messagesEndpoint,
		Headers: map[string]string{
			"x-api-key":         a.apiKey,
			"anthropic-version": anthropicVersion,
		},
		Proxy:       a.proxy,
		InsecureTLS: a.insecureTLS,
		Body:        body,
		Stream:      a.streaming,
	}, nil
}
