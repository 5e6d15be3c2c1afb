// Package ollama implements the [ai.Adapter] for a local Ollama server.
// Ollama does not speak the text/event-stream protocol: its chat endpoint
// streams newline-delimited JSON objects. The adapter therefore implements
// [ai.RawDecoder], taking raw transport chunks and owning line reassembly
// itself — the event-stream parser is bypassed entirely for this provider.
package ollama
