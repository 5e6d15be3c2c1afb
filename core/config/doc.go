// Package config loads the process-wide settings airelay consumes at its
// configuration boundary: which provider to use, whether to retain spooled
// request bodies for debugging, where to spool them, and the request
// timeout. Sources are layered lowest to highest: built-in defaults, an
// optional YAML file, then AIRELAY_* environment variables.
package config
