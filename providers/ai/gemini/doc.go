// Package gemini implements the [ai.Adapter] for Google's Gemini
// generateContent API. Gemini is wired as a single-shot provider here: the
// wire spec is built with Stream=false and the complete JSON response is
// decoded in one pass, never touching the event-stream parser.
package gemini
