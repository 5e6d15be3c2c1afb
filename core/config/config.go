package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names recognised by [Load].
const (
	EnvProvider = "AIRELAY_PROVIDER"
	EnvDebug    = "AIRELAY_DEBUG"
	EnvSpoolDir = "AIRELAY_SPOOL_DIR"
	EnvTimeout  = "AIRELAY_TIMEOUT"
)

// Settings holds the resolved configuration.
type Settings struct {
	// Provider is the registry key of the adapter handling requests.
	Provider string `koanf:"provider"`

	// Debug retains spooled request bodies on disk after each request
	// resolves, for inspection.
	Debug bool `koanf:"debug"`

	// SpoolDir overrides the directory request bodies are spooled to.
	// Empty selects the runtime-directory default.
	SpoolDir string `koanf:"spool_dir"`

	// Timeout bounds one whole request including streaming reads.
	// Zero means no limit.
	Timeout time.Duration `koanf:"timeout"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Provider: "anthropic",
		Timeout:  2 * time.Minute,
	}
}

// Load resolves settings from defaults, an optional YAML file, and the
// AIRELAY_* environment. An empty path skips the file layer; a path that
// does not exist is an error (the caller asked for it explicitly).
func Load(path string) (Settings, error) {
	settings := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return settings, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := k.Unmarshal("", &settings); err != nil {
			return settings, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if provider := os.Getenv(EnvProvider); provider != "" {
		settings.Provider = provider
	}
	if debug := os.Getenv(EnvDebug); debug != "" {
		parsed, err := strconv.ParseBool(debug)
		if err != nil {
			return settings, fmt.Errorf("invalid %s value %q: %w", EnvDebug, debug, err)
		}
		settings.Debug = parsed
	}
	if dir := os.Getenv(EnvSpoolDir); dir != "" {
		settings.SpoolDir = dir
	}
	if timeout := os.Getenv(EnvTimeout); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return settings, fmt.Errorf("invalid %s value %q: %w", EnvTimeout, timeout, err)
		}
		settings.Timeout = parsed
	}

	return settings, nil
}
