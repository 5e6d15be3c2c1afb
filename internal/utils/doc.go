// Package utils provides shared low-level helpers used throughout the
// airelay internals: string truncation for bounded log and error output,
// and a JSON stringifier that is safe to call from logging paths.
package utils
