// Package moduleindex walks a component's installed modules (and
// their transitive @Module(includes=...) closure), de-duplicates them,
// and groups every declaration each module contributes by key, so the
// Resolver never has to re-walk module inclusion itself.
package moduleindex

import "bindgraph/binding"

// Declarations is everything one module contributes, grouped by
// declaration kind.
type Declarations struct {
	Explicit      []binding.ExplicitDeclaration
	Multibindings []binding.MultibindingDeclaration
	Subcomponents []binding.SubcomponentDeclaration
	Delegates     []binding.DelegateDeclaration
	Optionals     []binding.OptionalDeclaration
}

// Module describes one module as registered with a Registry: its
// type name, the other modules it includes, and its own declarations
// (not its includes'; Build walks includes itself).
type Module struct {
	Type         string
	Includes     []string
	Declarations Declarations
}

// Registry is the set of modules known to a build, keyed by type name.
// It plays the role of whatever frontend owns module source parsing;
// the resolver itself only ever sees the result of Build.
type Registry struct {
	modules map[string]Module
}

func NewRegistry() *Registry { return &Registry{modules: make(map[string]Module)} }

// Add registers (or replaces) a module's declarations.
func (r *Registry) Add(m Module) { r.modules[m.Type] = m }

func (r *Registry) lookup(moduleType string) (Module, bool) {
	m, ok := r.modules[moduleType]
	return m, ok
}
