// Package openai implements the [ai.Adapter] for OpenAI's Chat Completions
// API and for the many OpenAI-compatible endpoints that mimic it. Streaming
// responses carry data lines only (no event labels) and end with the
// `[DONE]` sentinel, which completes the request ahead of transport closure.
package openai
