// Package dispatch owns the lifecycle of one in-flight provider request.
// A [Dispatcher] resolves the adapter for a prompt, builds the wire request,
// spools the body to disk, submits it to the transport, and routes transport
// callbacks to the event-stream parser or the adapter's non-stream decode
// path. It enforces the two contracts the caller relies on: completion fires
// exactly once per request, and chunks are never delivered concurrently or
// after completion.
//
// Each [Job] carries its own cancellation: Cancel aborts the transport call,
// and the resulting transport error drives the normal completion path.
// There is no process-wide cancellation broadcast.
package dispatch
