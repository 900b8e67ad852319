package hero

import (
	"iter"
	"slices"
	"strings"
)

// Registry maps formula names to formulas. Enumeration follows the order in
// which names were first registered.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	formulas   map[string]*Formula
	order      []string
	middleware []Middleware
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMiddleware applies mw to every step added to formulas created by the
// registry.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(r *Registry) {
		r.middleware = append(r.middleware, mw...)
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		formulas: make(map[string]*Formula),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the formula registered under name, registering an empty one
// first if there is none. Repeated calls return the same *Formula.
func (r *Registry) Get(name string) *Formula {
	if f, ok := r.formulas[name]; ok {
		return f
	}
	return r.Register(name)
}

// Lookup returns the formula registered under name without creating it.
func (r *Registry) Lookup(name string) (*Formula, bool) {
	f, ok := r.formulas[name]
	return f, ok
}

// Register stores a new, empty formula under name and returns it. A formula
// previously stored under the same name is dropped from the registry but not
// otherwise changed; the name keeps its place in enumeration order.
func (r *Registry) Register(name string) *Formula {
	f := newFormula(name, r.middleware...)
	if _, ok := r.formulas[name]; !ok {
		r.order = append(r.order, name)
	}
	r.formulas[name] = f
	return f
}

// Reset detaches every formula and empties the registry. Formulas obtained
// earlier keep their steps and still run, but report zero observers.
func (r *Registry) Reset() {
	for _, f := range r.formulas {
		f.detach()
	}
	r.formulas = make(map[string]*Formula)
	r.order = nil
}

// Count returns the number of registered formulas.
func (r *Registry) Count() int {
	return len(r.formulas)
}

// Names returns formula names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// All iterates formulas in registration order.
func (r *Registry) All() iter.Seq2[string, *Formula] {
	return func(yield func(string, *Formula) bool) {
		for _, name := range slices.Clone(r.order) {
			if !yield(name, r.formulas[name]) {
				return
			}
		}
	}
}

// Each calls fn for every formula in registration order.
func (r *Registry) Each(fn func(name string, f *Formula)) {
	for name, f := range r.All() {
		fn(name, f)
	}
}

// Report concatenates the report of every formula, separated by blank
// lines, in registration order.
func (r *Registry) Report() string {
	blocks := make([]string, 0, len(r.order))
	for _, f := range r.All() {
		blocks = append(blocks, f.Report())
	}
	return strings.Join(blocks, "\n\n")
}

var defaultRegistry *Registry

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// Get returns the named formula from the default registry, creating it if
// necessary.
func Get(name string) *Formula {
	return Default().Get(name)
}

// Register replaces the named formula in the default registry.
func Register(name string) *Formula {
	return Default().Register(name)
}

// Reset empties the default registry.
func Reset() {
	Default().Reset()
}

// Count returns the number of formulas in the default registry.
func Count() int {
	return Default().Count()
}

// Report returns the aggregate report of the default registry.
func Report() string {
	return Default().Report()
}
