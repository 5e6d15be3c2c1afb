// Package ai defines the shared, provider-agnostic types and interfaces used
// across all LLM provider adapters (Anthropic, OpenAI, Gemini, Ollama).
// Each adapter's conversion layer is responsible for mapping these types to
// its own wire format, keeping the rest of the codebase decoupled from
// provider-specific details.
//
// The central interface is [Adapter], which turns a [PromptRequest] into a
// fully resolved [WireSpec] and decodes wire responses back into generic
// [Fragment] values. Streaming adapters additionally implement exactly one of
// [StreamDecoder] (line-oriented event streams) or [RawDecoder] (custom
// framings such as NDJSON); the [Registry] rejects adapters that claim both.
//
// Decoded output flows to the caller through a [Sink], which wraps the
// caller's [Handlers] and enforces the exactly-once completion contract.
package ai
