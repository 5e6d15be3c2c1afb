// Package sse implements the line-oriented text/event-stream parser used for
// streaming provider responses. A [Parser] belongs to exactly one request:
// it carries the most recently seen `event:` label across lines and
// reassembles lines split across arbitrary transport chunk boundaries, so
// feeding a stream byte-by-byte decodes the same (event, data) pairs as
// feeding it whole.
package sse
