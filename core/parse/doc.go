// Package parse provides tolerant JSON decoding for provider payloads.
// Providers occasionally emit slightly malformed JSON (single quotes,
// trailing commas, unquoted keys — especially from smaller self-hosted
// models); [Unmarshal] repairs such input with jsonrepair before giving up.
package parse
