// Package provider maps verification provider names to factories that build
// a configured ports.AddressVerifier from a key/value options map.
package provider

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/ports"
)

// Options is the flat key/value configuration handed to a Factory.
type Options map[string]string

// Factory builds a verifier from options.
type Factory func(opts Options, log zerolog.Logger) (ports.AddressVerifier, error)

// Registry holds the known verification providers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry returns a registry with every built-in provider.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.Register(NamePostcoderWeb, NewPostcoderWeb); err != nil {
		panic(err)
	}
	return r
}

// Register adds a factory under name. Names are case-insensitive.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return ErrNilFactory
	}
	key := normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return ErrDuplicateProvider(key)
	}
	r.factories[key] = f
	return nil
}

// Create builds the verifier registered under name.
func (r *Registry) Create(name string, opts Options, log zerolog.Logger) (ports.AddressVerifier, error) {
	r.mu.RLock()
	f, ok := r.factories[normalizeName(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownProvider(name)
	}
	return f(opts, log)
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
