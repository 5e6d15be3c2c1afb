package gemini

import (
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/airelay/providers/ai"
)

type recorder struct {
	fragments []ai.Fragment
}

func (r *recorder) sink() *ai.Sink {
	return ai.NewSink(ai.Handlers{
		OnChunk: func(fragment ai.Fragment) { r.fragments = append(r.fragments, fragment) },
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

// TestBuildWireSpec_SingleShot verifies the model-scoped URL, the API key
// header, and that the spec never requests streaming.
func TestBuildWireSpec_SingleShot(t *testing.T) {
	adapter := New().WithAPIKey("g-test").WithBaseURL("https://example.test/v1beta").WithModel("gemini-test")

	spec, err := adapter.BuildWireSpec(&ai.PromptRequest{System: "be terse", Prompt: []string{"hi"}})
	if err != nil {
		t.Fatalf("BuildWireSpec failed: %v", err)
	}

	if spec.URL != "https://example.test/v1beta/models/gemini-test:generateContent" {
		t.Errorf("URL = %q", spec.URL)
	}
	if spec.Headers["x-goog-api-key"] != "g-test" {
		t.Errorf("x-goog-api-key header = %q", spec.Headers["x-goog-api-key"])
	}
	if spec.Stream {
		t.Error("gemini requests are single-shot")
	}

	body := spec.Body.(*generateRequest)
	if body.SystemInstruction == nil || body.SystemInstruction.Parts[0].Text != "be terse" {
		t.Errorf("system instruction = %+v", body.SystemInstruction)
	}
}

// TestDecodeFullResponse verifies every text part of the first candidate
// becomes a fragment; further candidates are ignored.
func TestDecodeFullResponse(t *testing.T) {
	rec := &recorder{}
	sink := rec.sink()

	body := `{"candidates":[` +
		`{"content":{"role":"model","parts":[{"text":"first"},{"text":"second"}]},"finishReason":"STOP"},` +
		`{"content":{"parts":[{"text":"other candidate"}]}}]}`
	New().DecodeFullResponse([]byte(body), sink)

	if len(rec.fragments) != 2 {
		t.Fatalf("fragments = %d, want 2", len(rec.fragments))
	}
	if rec.fragments[0].Text != "first" || rec.fragments[1].Text != "second" {
		t.Errorf("fragment texts = %q, %q", rec.fragments[0].Text, rec.fragments[1].Text)
	}
}

// TestDecodeFullResponse_NoCandidates verifies an empty result dispatches
// nothing.
func TestDecodeFullResponse_NoCandidates(t *testing.T) {
	rec := &recorder{}
	New().DecodeFullResponse([]byte(`{"candidates":[]}`), rec.sink())

	if len(rec.fragments) != 0 {
		t.Errorf("fragments = %v", rec.fragments)
	}
}

// TestTransportErrorMessage verifies the Google error envelope is decoded,
// with the generic fallback for other bodies.
func TestTransportErrorMessage(t *testing.T) {
	adapter := New()

	structured := adapter.TransportErrorMessage(400, []byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	if !strings.Contains(structured, "API key not valid") || !strings.Contains(structured, "400") {
		t.Errorf("structured message = %q", structured)
	}

	fallback := adapter.TransportErrorMessage(503, []byte("service unavailable"))
	if !strings.Contains(fallback, "503") {
		t.Errorf("fallback message = %q", fallback)
	}
}
