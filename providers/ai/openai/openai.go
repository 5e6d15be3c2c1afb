package openai

import (
	"os"

	"github.com/leofalp/airelay/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	defaultModel            = "gpt-4o-mini"
	chatCompletionsEndpoint = "/chat/completions"
)

// Adapter implements [ai.Adapter] and [ai.StreamDecoder] for OpenAI's Chat
// Completions API. Use [New] to construct a ready-to-use instance.
type Adapter struct {
	apiKey      string
	baseURL     string
	model       string
	proxy       string
	insecureTLS bool
	streaming   bool
}

// New returns an [Adapter] initialized from environment variables: it reads
// OPENAI_API_KEY for authentication and OPENAI_API_BASE_URL for the endpoint
// base. Point the base URL at any OpenAI-compatible server to reuse this
// adapter for other backends.
func New() *Adapter {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:    os.Getenv("OPENAI_API_KEY"),
		baseURL:   baseURL,
		model:     defaultModel,
		streaming: true,
	}
}

// Name implements [ai.Adapter].
func (a *Adapter) Name() string { return "openai" }

// WithAPIKey overrides the API key read from OPENAI_API_KEY.
func (a *Adapter) WithAPIKey(apiKey string) *Adapter {
	a.apiKey = apiKey
	return a
}

// WithBaseURL overrides the API base URL.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = baseURL
	return a
}

// WithModel overrides the default model.
func (a *Adapter) WithModel(model string) *Adapter {
	a.model = model
	return a
}

// WithProxy routes requests through the given proxy URL.
func (a *Adapter) WithProxy(proxy string, insecureTLS bool) *Adapter {
	a.proxy = proxy
	a.insecureTLS = insecureTLS
	return a
}

// WithStreaming toggles streaming mode.
func (a *Adapter) WithStreaming(streaming bool) *Adapter {
	a.streaming = streaming
	return a
}

// BuildWireSpec implements [ai.Adapter].
func (a *Adapter) BuildWireSpec(request *ai.PromptRequest) (*ai.WireSpec, error) {
	if a.apiKey == "" {
		return nil, &ai.ConfigError{Provider: a.Name(), Reason: "OPENAI_API_KEY is not set"}
	}

	messages := make([]chatMessage, 0, 2)
	if request.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: request.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: request.Text()})

	body := &chatRequest{
		Model:    a.model,
		Messages: messages,
		Stream:   a.streaming,
	}

	return &ai.WireSpec{
		URL: a.baseURL + chatCompletionsEndpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + a.apiKey,
		},
		Proxy:       a.proxy,
		InsecureTLS: a.insecureTLS,
		Body:        body,
		Stream:      a.streaming,
	}, nil
}
