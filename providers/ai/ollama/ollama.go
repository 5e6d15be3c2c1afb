package ollama

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/leofalp/airelay/core/parse"
	"github.com/leofalp/airelay/providers/ai"
)

const (
	defaultBaseURL = "http://localhost:11434"
	chatEndpoint   = "/api/chat"
	defaultModel   = "llama3.1"
)

// Adapter implements [ai.Adapter] and [ai.RawDecoder] for Ollama's chat
// API. One adapter instance serves one request: the partial-line buffer for
// NDJSON reassembly lives on the instance, never shared across streams.
type Adapter struct {
	baseURL string
	model   string

	// partial holds an unterminated NDJSON line carried across chunks.
	partial []byte
}

// New returns an [Adapter] initialized from environment variables:
// OLLAMA_HOST for the server base URL (defaulting to the local daemon) and
// OLLAMA_MODEL for the model name. Ollama needs no credential.
func New() *Adapter {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Adapter{baseURL: baseURL, model: model}
}

// Name implements [ai.Adapter].
func (a *Adapter) Name() string { return "ollama" }

// WithBaseURL overrides the server base URL.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = baseURL
	return a
}

// WithModel overrides the default model.
func (a *Adapter) WithModel(model string) *Adapter {
	a.model = model
	return a
}

// BuildWireSpec implements [ai.Adapter]. Local daemons need no API key, so
// there is no credential check here.
func (a *Adapter) BuildWireSpec(request *ai.PromptRequest) (*ai.WireSpec, error) {
	messages := make([]chatMessage, 0, 2)
	if request.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: request.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: request.Text()})

	body := &chatRequest{
		Model:    a.model,
		Messages: messages,
		Stream:   true,
	}

	return &ai.WireSpec{
		URL:     a.baseURL + chatEndpoint,
		Headers: map[string]string{},
		Body:    body,
		Stream:  true,
	}, nil
}

// DecodeRaw implements [ai.RawDecoder]. Chunks are reassembled into NDJSON
// lines; each line is one chat response object. An object with done=true
// completes the request early.
func (a *Adapter) DecodeRaw(chunk []byte, sink *ai.Sink) {
	a.partial = append(a.partial, chunk...)

	for {
		newline := bytes.IndexByte(a.partial, '\n')
		if newline < 0 {
			return
		}
		line := bytes.TrimSpace(a.partial[:newline])
		a.partial = a.partial[newline+1:]
		if len(line) == 0 {
			continue
		}
		a.decodeLine(line, sink)
	}
}

func (a *Adapter) decodeLine(line []byte, sink *ai.Sink) {
	var response chatResponse
	if err := parse.Unmarshal(line, &response); err != nil {
		return
	}

	if response.Message.Content != "" {
		sink.Chunk(ai.Fragment{Text: response.Message.Content, Raw: json.RawMessage(bytes.Clone(line))})
	}
	if response.Done {
		sink.Complete(nil)
	}
}

// DecodeFullResponse implements [ai.Adapter] for non-streaming use: the
// body is a single chat response object.
func (a *Adapter) DecodeFullResponse(body []byte, sink *ai.Sink) {
	a.decodeLine(bytes.TrimSpace(body), sink)
}

var _ ai.Adapter = (*Adapter)(nil)
var _ ai.RawDecoder = (*Adapter)(nil)
