package openai

import (
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/airelay/core/sse"
	"github.com/leofalp/airelay/providers/ai"
)

type recorder struct {
	fragments   []ai.Fragment
	completions []error
}

func (r *recorder) sink() *ai.Sink {
	return ai.NewSink(ai.Handlers{
		OnChunk:    func(fragment ai.Fragment) { r.fragments = append(r.fragments, fragment) },
		OnComplete: func(err error) { r.completions = append(r.completions, err) },
	})
}

// TestBuildWireSpec_MissingKey verifies the credential check.
func TestBuildWireSpec_MissingKey(t *testing.T) {
	adapter := New().WithAPIKey("")

	_, err := adapter.BuildWireSpec(&ai.PromptRequest{Prompt: []string{"hi"}})
	var configErr *ai.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("error = %v, want *ai.ConfigError", err)
	}
}

// TestBuildWireSpec_Messages verifies the system prompt becomes its own
// message and the bearer header carries the key.
func TestBuildWireSpec_Messages(t *testing.T) {
	adapter := New().WithAPIKey("sk-test").WithBaseURL("https://example.test/v1")

	spec, err := adapter.BuildWireSpec(&ai.PromptRequest{
		System: "be terse",
		Prompt: []string{"hi"},
	})
	if err != nil {
		t.Fatalf("BuildWireSpec failed: %v", err)
	}

	if spec.URL != "https://example.test/v1/chat/completions" {
		t.Errorf("URL = %q", spec.URL)
	}
	if spec.Headers["Authorization"] != "Bearer sk-test" {
		t.Errorf("Authorization header = %q", spec.Headers["Authorization"])
	}

	body := spec.Body.(*chatRequest)
	if len(body.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(body.Messages))
	}
	if body.Messages[0].Role != "system" || body.Messages[0].Content != "be terse" {
		t.Errorf("system message = %+v", body.Messages[0])
	}
	if body.Messages[1].Role != "user" || body.Messages[1].Content != "hi" {
		t.Errorf("user message = %+v", body.Messages[1])
	}
}

// TestDecodeFragment_Stream plays an OpenAI-style stream (data lines only,
// no event labels) through the parser and checks deltas assemble in order
// with the [DONE] sentinel completing the request.
func TestDecodeFragment_Stream(t *testing.T) {
	stream := `data: {"choices":[{"delta":{"content":"Hel"}}]}` + "\n\n" +
		`data: {"choices":[{"delta":{"content":"lo"}}]}` + "\n\n" +
		`data: {"choices":[{"delta":{},"finish_reason":"stop"}]}` + "\n\n" +
		"data: [DONE]\n\n"

	rec := &recorder{}
	parser := sse.New(New().WithAPIKey("sk-test"), rec.sink())
	parser.Feed([]byte(stream))
	parser.Flush()

	if len(rec.completions) != 1 || rec.completions[0] != nil {
		t.Fatalf("completions = %v, want one nil completion from [DONE]", rec.completions)
	}

	var text strings.Builder
	for _, fragment := range rec.fragments {
		text.WriteString(fragment.Text)
	}
	if text.String() != "Hello" {
		t.Errorf("assembled text = %q, want %q", text.String(), "Hello")
	}
}

// TestDecodeFragment_EmptyDeltaProducesNothing verifies chunks without
// content (role announcements, finish markers) dispatch no fragments.
func TestDecodeFragment_EmptyDeltaProducesNothing(t *testing.T) {
	rec := &recorder{}
	sink := rec.sink()

	New().DecodeFragment(`{"choices":[{"delta":{"role":"assistant"}}]}`, "", sink)

	if len(rec.fragments) != 0 {
		t.Errorf("empty delta produced fragments: %v", rec.fragments)
	}
}

// TestDecodeFragment_SkipsMalformedPayloads verifies undecodable payloads
// are dropped without failing the stream.
func TestDecodeFragment_SkipsMalformedPayloads(t *testing.T) {
	rec := &recorder{}
	sink := rec.sink()

	New().DecodeFragment("\x00 not json", "", sink)

	if len(rec.fragments) != 0 || len(rec.completions) != 0 {
		t.Errorf("malformed payload produced output: fragments=%v completions=%v", rec.fragments, rec.completions)
	}
}

// TestDecodeFullResponse verifies the non-streaming path.
func TestDecodeFullResponse(t *testing.T) {
	rec := &recorder{}
	sink := rec.sink()

	body := `{"choices":[{"message":{"role":"assistant","content":"full answer"},"finish_reason":"stop"}]}`
	New().DecodeFullResponse([]byte(body), sink)

	if len(rec.fragments) != 1 || rec.fragments[0].Text != "full answer" {
		t.Errorf("fragments = %v, want one with the full answer", rec.fragments)
	}
}
