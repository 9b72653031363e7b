package postprocessors

import (
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// Options is the per-processor configuration taken from
// domain.PipelineConfig. Values may arrive as Go ints or as the int64 and
// float64 numbers that TOML and JSON decoding produce.
type Options map[string]any

// Int returns the integer under key, or def when the key is absent or not
// a number.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Has reports whether key is set.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Builder constructs a processor from its options.
type Builder func(opts Options) (driven.PostProcessor, error)

type entry struct {
	summary string
	build   Builder
}

// Registry maps processor names to builders. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a builder under name. Names are unique.
func (r *Registry) Register(name, summary string, build Builder) error {
	if name == "" || build == nil {
		return fmt.Errorf("%w: processor needs a name and a builder", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("%w: processor %q already registered", domain.ErrInvalidInput, name)
	}
	r.entries[name] = entry{summary: summary, build: build}
	return nil
}

// Build constructs the processor called name and checks it reports the
// same name.
func (r *Registry) Build(name string, opts Options) (driven.PostProcessor, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor: %s", domain.ErrInvalidInput, name)
	}

	p, err := e.build(opts)
	if err != nil {
		return nil, fmt.Errorf("build processor %s: %w", name, err)
	}
	if p.Name() != name {
		return nil, fmt.Errorf("processor registered as %q reports name %q", name, p.Name())
	}
	return p, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Summary returns the one-line description given at registration.
func (r *Registry) Summary(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name].summary
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
