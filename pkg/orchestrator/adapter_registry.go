package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// FormatAdapter aliases the canonical adapter interface for convenience.
type FormatAdapter = schema.FormatAdapter

// AdapterRegistry stores format adapters by lower-cased name.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]schema.FormatAdapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[string]schema.FormatAdapter),
	}
}

// Register adds an adapter by its Name(). Duplicate names return an error.
func (r *AdapterRegistry) Register(adapter schema.FormatAdapter) error {
	if adapter == nil {
		return fmt.Errorf("orchestrator: adapter is required")
	}
	name := adapterKey(adapter.Name())
	if name == "" {
		return fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("orchestrator: adapter %q already registered", name)
	}
	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure.
func (r *AdapterRegistry) MustRegister(adapter schema.FormatAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *AdapterRegistry) Get(name string) (schema.FormatAdapter, error) {
	key := adapterKey(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: adapter %q not found", key)
	}
	return adapter, nil
}

// Has reports whether an adapter is registered under the name.
func (r *AdapterRegistry) Has(name string) bool {
	key := adapterKey(name)
	if key == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.adapters[key]
	return ok
}

// List returns the registered adapter names in sorted order.
func (r *AdapterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns the adapters claiming the payload, in name order so repeated
// detection over the same registry stays deterministic.
func (r *AdapterRegistry) Detect(src schema.Source, raw []byte) []schema.FormatAdapter {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	var matches []schema.FormatAdapter
	for _, name := range names {
		adapter := r.adapters[name]
		if adapter != nil && adapter.Detect(src, raw) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

func adapterKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
