package gemini

import (
	"fmt"
	"os"

	"github.com/leofalp/airelay/core/parse"
	"github.com/leofalp/airelay/providers/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash-lite" // Most cost-effective model
)

// Adapter implements [ai.Adapter] for the generateContent endpoint.
// Use [New] to construct a ready-to-use instance.
type Adapter struct {
	apiKey  string
	baseURL string
	model   string
}

// New returns an [Adapter] initialized from environment variables:
// GEMINI_API_KEY for authentication and GEMINI_API_BASE_URL for the endpoint
// base (optional, defaults to Google's API).
func New() *Adapter {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		model:   defaultModel,
	}
}

// Name implements [ai.Adapter].
func (a *Adapter) Name() string { return "gemini" }

// WithAPIKey overrides the API key read from GEMINI_API_KEY.
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

// BuildWireSpec implements [ai.Adapter]. The spec is always single-shot
// (Stream=false).
func (a *Adapter) BuildWireSpec(request *ai.PromptRequest) (*ai.WireSpec, error) {
	if a.apiKey == "" {
		return nil, &ai.ConfigError{Provider: a.Name(), Reason: "GEMINI_API_KEY is not set"}
	}

	body := &generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: request.Text()}},
		}},
	}
	if request.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: request.System}}}
	}

	return &ai.WireSpec{
		URL: fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, a.model),
		Headers: map[string]string{
			"x-goog-api-key": a.apiKey,
		},
		Body:   body,
		Stream: false,
	}, nil
}

// DecodeFullResponse implements [ai.Adapter]: every text part of the first
// candidate becomes one fragment.
func (a *Adapter) DecodeFullResponse(body []byte, sink *ai.Sink) {
	var response generateResponse
	if err := parse.Unmarshal(body, &response); err != nil {
		return
	}

	if len(response.Candidates) == 0 {
		return
	}
	for _, candidatePart := range response.Candidates[0].Content.Parts {
		if candidatePart.Text != "" {
			sink.Chunk(ai.Fragment{Text: candidatePart.Text, Raw: body})
		}
	}
}

// TransportErrorMessage implements [ai.TransportErrorReporter] by decoding
// Google's standard error envelope.
func (a *Adapter) TransportErrorMessage(status int, body []byte) string {
	var response errorResponse
	if err := parse.Unmarshal(body, &response); err == nil && response.Error != nil && response.Error.Message != "" {
		return fmt.Sprintf("gemini: %s (status %d)", response.Error.Message, status)
	}
	return ai.FormatTransportError(status, body)
}

var _ ai.Adapter = (*Adapter)(nil)
var _ ai.TransportErrorReporter = (*Adapter)(nil)
