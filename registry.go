package litecmp

import (
	"sort"
	"sync"
)

// DefaultRegistry is the process-wide table runtimes use unless created
// with WithRegistry.
var DefaultRegistry = NewRegistry()

// Registry maps component IDs to mounted components.
//
// A component is present exactly while it is mounted: the runtime registers
// it at the end of Mount and unregisters it during Unmount. Reads are safe
// from any goroutine; writes happen only inside runtime transitions.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*Component),
	}
}

// Register inserts c under its ID.
func (reg *Registry) Register(c *Component) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := c.ID()
	if _, exists := reg.components[id]; exists {
		return &DuplicateRegistrationError{ID: id}
	}
	reg.components[id] = c
	return nil
}

// Unregister removes c. It is a no-op if c is not registered.
func (reg *Registry) Unregister(c *Component) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := c.ID()
	if reg.components[id] == c {
		delete(reg.components, id)
	}
}

// GetByID returns the mounted component with the given ID.
func (reg *Registry) GetByID(id string) (*Component, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	c, ok := reg.components[id]
	return c, ok
}

// Lookup is GetByID returning ErrNotFound when the ID is unknown.
func (reg *Registry) Lookup(id string) (*Component, error) {
	c, ok := reg.GetByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Len returns the number of mounted components.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.components)
}

// IDs returns the registered IDs in sorted order.
func (reg *Registry) IDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	ids := make([]string, 0, len(reg.components))
	for id := range reg.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Components returns the registered components ordered by ID.
func (reg *Registry) Components() []*Component {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]*Component, 0, len(reg.components))
	for _, c := range reg.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
