package access

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages catalogue registration and lookup by name.
type Registry struct {
	catalogs map[string]Catalog
	mu       sync.RWMutex
}

// NewRegistry creates a new catalogue registry.
func NewRegistry() *Registry {
	return &Registry{
		catalogs: make(map[string]Catalog),
	}
}

// Register adds a catalogue to the registry.
func (r *Registry) Register(c Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if name == "" {
		return fmt.Errorf("catalog name must not be empty")
	}
	if _, ok := r.catalogs[name]; ok {
		return fmt.Errorf("catalog %q already registered", name)
	}
	r.catalogs[name] = c
	return nil
}

// Unregister removes a catalogue by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.catalogs, name)
}

// Lookup returns the catalogue registered under name.
func (r *Registry) Lookup(name string) (Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.catalogs[name]
	if !ok {
		return nil, NewUnknownCatalogError(name)
	}
	return c, nil
}

// Names returns the registered catalogue names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.catalogs))
	for name := range r.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered catalogues sorted by name.
func (r *Registry) All() []Catalog {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	catalogs := make([]Catalog, 0, len(names))
	for _, name := range names {
		catalogs = append(catalogs, r.catalogs[name])
	}
	return catalogs
}

// Len returns the number of registered catalogues.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.catalogs)
}
