package spool

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
)

// EnvSpoolDir overrides the directory spooled request bodies are written to.
const EnvSpoolDir = "AIRELAY_SPOOL_DIR"

// Store writes request bodies to spool files and cleans them up afterwards.
type Store struct {
	dir string

	// retain keeps spooled files on disk after the request resolves so
	// they can be inspected. Enabled by the debug config flag.
	retain bool
}

// New creates a store writing into dir. An empty dir selects [DefaultDir].
// When retain is true, Cleanup becomes a no-op and files survive the request
// for inspection.
func New(dir string, retain bool) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{dir: dir, retain: retain}
}

// DefaultDir resolves the spool directory: the environment override first,
// then an airelay subdirectory of the user runtime directory (XDG_RUNTIME_DIR
// or the platform equivalent), falling back to the system temp directory.
func DefaultDir() string {
	if dir := os.Getenv(EnvSpoolDir); dir != "" {
		return dir
	}
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, "airelay")
	}
	return filepath.Join(os.TempDir(), "airelay")
}

// Dir reports the directory this store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Write serializes body to JSON and writes it to a fresh spool file,
// returning the file path. The directory is created on first use.
func (s *Store) Write(body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request body: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create spool directory: %w", err)
	}

	file, err := os.CreateTemp(s.dir, "request-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create spool file: %w", err)
	}

	if _, err := file.Write(payload); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write spool file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close spool file: %w", err)
	}

	return file.Name(), nil
}

// Cleanup removes a spool file. It is idempotent: a missing file is not an
// error, so every terminal path of a request may call it without
// coordination. Retention mode skips deletion entirely.
func (s *Store) Cleanup(path string) {
	if s.retain || path == "" {
		return
	}
	// The transport has finished reading by the time any terminal callback
	// fires, so removal cannot race its open handle.
	_ = os.Remove(path)
}

// Diagnose inspects err and, when it is a local write failure, probes the
// spool directory and returns a user-facing hint describing what is wrong
// with it. It returns "" for errors that are not write failures; the caller
// then reports the original error unadorned. The hint is a diagnostic aid
// only and never changes the completion outcome.
func (s *Store) Diagnose(err error) string {
	if !isWriteFailure(err) {
		return ""
	}

	info, statErr := os.Stat(s.dir)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		return fmt.Sprintf("spool directory %s does not exist; create it or set %s to a writable directory", s.dir, EnvSpoolDir)
	case statErr != nil:
		return fmt.Sprintf("spool directory %s is not accessible: %v", s.dir, statErr)
	case !info.IsDir():
		return fmt.Sprintf("spool path %s is not a directory; set %s to a writable directory", s.dir, EnvSpoolDir)
	}

	// Probe writability the honest way: try to create a file.
	probe, probeErr := os.CreateTemp(s.dir, "probe-*")
	if probeErr != nil {
		return fmt.Sprintf("spool directory %s is not writable; set %s to a writable directory", s.dir, EnvSpoolDir)
	}
	probe.Close()
	os.Remove(probe.Name())

	return ""
}

// isWriteFailure reports whether err belongs to the local-write failure
// class: permission problems, missing paths, or a full disk.
func isWriteFailure(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EROFS)
}
