// Package observability provides the structured logging layer used across
// airelay. Components log through the [Logger] interface with typed
// [Attribute] values; the default backend is Go's log/slog via [NewSlog].
//
// Loggers travel through context ([ContextWithLogger] / [LoggerFromContext])
// so library code never reaches for a global. [NewDeduper] wraps any Logger
// to suppress repeated identical warnings, keeping recurring diagnostics
// (an unwritable spool directory, for instance) to one line per process.
package observability
