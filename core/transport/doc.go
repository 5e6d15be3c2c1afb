// Package transport defines the boundary between the dispatcher and the
// HTTP layer that actually executes wire requests. The dispatcher only
// constructs [ai.WireSpec] values and consumes [Callbacks]; connection
// handling, TLS, and proxying live behind the [Transport] interface.
// [HTTPTransport] is the default net/http implementation.
package transport
