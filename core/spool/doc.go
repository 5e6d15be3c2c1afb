// Package spool persists serialized request bodies to transient files so the
// transport can stream large bodies from disk instead of holding them in
// memory. Every spooled file is owned by exactly one dispatch invocation and
// is deleted once the call resolves, unless debug retention is enabled.
//
// The package also provides the write-failure diagnostic: when a request
// dies with a local write error, [Store.Diagnose] probes the spool directory
// for existence and writability and produces a user-facing hint, because the
// usual culprit is a runtime directory that was never created.
package spool
