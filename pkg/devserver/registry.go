package devserver

import (
	"sort"
	"sync"

	"github.com/weft-ui/weft/internal/werrors"
	"github.com/weft-ui/weft/pkg/element"
)

// Registry is the dev server's element registry. It implements
// element.ElementRegistry; duplicate names fail with the registry's
// own error, which is the platform's duplicate-definition condition.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*element.Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*element.Definition)}
}

// Define implements element.ElementRegistry.
func (r *Registry) Define(def *element.Definition) error {
	if def.Name() == "" {
		return werrors.New("E021")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name()]; exists {
		return werrors.New("E020").WithDetail("element %q is already defined", def.Name())
	}
	r.defs[def.Name()] = def
	return nil
}

// Lookup returns the definition registered under name, or nil.
func (r *Registry) Lookup(name string) *element.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defs[name]
}

// Names returns the registered element names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
