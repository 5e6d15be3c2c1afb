package ai

import (
	"fmt"
	"sync"
)

// Factory constructs a fresh adapter instance. Adapters are created per
// request so that any decoding state they hold (partial-line buffers, block
// counters) is never shared across requests.
type Factory func() Adapter

// Registry maps provider keys to adapter factories. It is the closed set of
// providers a dispatcher can resolve: registration validates the adapter's
// capability profile once, so an adapter claiming both line-based and raw
// stream decoding is rejected up front instead of misbehaving mid-request.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a provider under name. The factory is probed once to
// validate the capability profile: implementing both [StreamDecoder] and
// [RawDecoder] is a programming error because the two decode paths are
// mutually exclusive. Registering the same name twice is also rejected.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("adapter registration requires a non-empty name")
	}
	if factory == nil {
		return fmt.Errorf("adapter %q: nil factory", name)
	}

	probe := factory()
	_, line := probe.(StreamDecoder)
	_, raw := probe.(RawDecoder)
	if line && raw {
		return fmt.Errorf("adapter %q implements both StreamDecoder and RawDecoder; the decode paths are mutually exclusive", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("adapter %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Resolve returns a fresh adapter instance for name. Unknown names are a
// configuration error, surfaced before any network activity occurs.
func (r *Registry) Resolve(name string) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ConfigError{Provider: name, Reason: "unknown provider"}
	}
	return factory(), nil
}

// Names returns the registered provider keys, for diagnostics and CLI help.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
