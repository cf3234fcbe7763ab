package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/llm"
)

// ErrProviderNotRegistered is returned by [Registry.CreateLLM] when no factory
// has been registered under the requested backend.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps interview backends to their language-model constructor
// functions. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	llm map[Backend]func(ProviderEntry) (llm.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		llm: make(map[Backend]func(ProviderEntry) (llm.Provider, error)),
	}
}

// RegisterLLM registers a language-model factory under backend.
// Subsequent calls with the same backend overwrite the previous registration.
func (r *Registry) RegisterLLM(backend Backend, factory func(ProviderEntry) (llm.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm[backend] = factory
}

// CreateLLM instantiates a language model for backend using its registered
// factory and the matching entry from cfg.
// Returns [ErrProviderNotRegistered] if no factory has been registered.
func (r *Registry) CreateLLM(backend Backend, cfg ProvidersConfig) (llm.Provider, error) {
	r.mu.RLock()
	factory, ok := r.llm[backend]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: llm/%q", ErrProviderNotRegistered, backend)
	}
	return factory(cfg.Entry(backend))
}

// Backends returns the backends with a registered factory, in no fixed order.
func (r *Registry) Backends() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Backend, 0, len(r.llm))
	for b := range r.llm {
		out = append(out, b)
	}
	return out
}
