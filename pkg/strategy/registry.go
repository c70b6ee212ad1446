package strategy

import (
	"fmt"
	"sync"
)

// Registry stores Strategy implementations in memory with thread-safe
// access, filled by RegisterBuiltinStrategies when NewDefaultRegistry
// builds it (nothing registers at package init) — the same shape as pkg/config.LLMProviderRegistry and
// kadirpekel-hector's generic registry.BaseRegistry[T].
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy under its own ID. Re-registering the same ID
// overwrites the previous entry, allowing callers to override a built-in
// strategy before first use.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.ID()] = s
}

// Get retrieves a strategy by ID.
func (r *Registry) Get(id string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStrategyNotFound, id)
	}
	return s, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.strategies[id]
	return ok
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}
