package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

type entry struct {
	desc Descriptor
	impl Implementation
	seq  uint64
}

// Registry is the process-wide catalog mapping tool name to descriptor and
// implementation. Registration installs the pair atomically; lookups on other
// names are never blocked by a registration in flight.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	nextSeq uint64
}

// NewRegistry creates an empty registry. Pass the instance explicitly to the
// executor rather than relying on a hidden global.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

type registerOptions struct {
	replace bool
}

// RegisterOption adjusts registration behavior.
type RegisterOption func(*registerOptions)

// WithReplace allows re-registering an existing name, keeping its original
// position in listing order.
func WithReplace() RegisterOption {
	return func(o *registerOptions) { o.replace = true }
}

// Register installs a descriptor/implementation pair. Registering an existing
// name without WithReplace fails with ErrDuplicateName and leaves the prior
// entry intact.
func (r *Registry) Register(desc Descriptor, impl Implementation, opts ...RegisterOption) error {
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}
	if impl == nil {
		return fmt.Errorf("tool implementation cannot be nil")
	}

	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[desc.Name]; ok {
		if !o.replace {
			return fmt.Errorf("%w: %s", ErrDuplicateName, desc.Name)
		}
		r.entries[desc.Name] = &entry{desc: desc, impl: impl, seq: existing.seq}
		log.Info().Str("tool", desc.Name).Msg("Tool replaced")
		return nil
	}

	r.entries[desc.Name] = &entry{desc: desc, impl: impl, seq: r.nextSeq}
	r.nextSeq++

	log.Info().Str("tool", desc.Name).Str("category", desc.Category).Msg("Tool registered")
	return nil
}

// RegisterTool installs a Tool under its own descriptor.
func (r *Registry) RegisterTool(t *Tool, opts ...RegisterOption) error {
	if t == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	return r.Register(t.Descriptor(), t, opts...)
}

// Unregister removes a tool. Absent names fail with ErrNotFound.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(r.entries, name)

	log.Info().Str("tool", name).Msg("Tool unregistered")
	return nil
}

// Lookup resolves a name to its registered descriptor and implementation.
func (r *Registry) Lookup(name string) (Descriptor, Implementation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Descriptor{}, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.desc, e.impl, nil
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// List returns descriptors in registration order. A non-empty category
// filters to tools carrying that tag.
func (r *Registry) List(category string) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := r.sortedEntries()
	out := make([]Descriptor, 0, len(ordered))
	for _, e := range ordered {
		if category != "" && e.desc.Category != category {
			continue
		}
		out = append(out, e.desc)
	}
	return out
}

// ExportSchemas returns the LLM-facing function schemas for every registered
// tool, in registration order. It is a pure function of registry state.
func (r *Registry) ExportSchemas() []FunctionSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := r.sortedEntries()
	out := make([]FunctionSchema, 0, len(ordered))
	for _, e := range ordered {
		out = append(out, e.desc.Schema())
	}
	return out
}

// Reset removes every entry; a hook for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*entry)
	r.nextSeq = 0
}

// sortedEntries returns entries by registration sequence. Callers must hold
// at least a read lock.
func (r *Registry) sortedEntries() []*entry {
	ordered := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })
	return ordered
}
