// Package component holds ComponentDescriptor, the frontend-computed
// record the resolver consumes but never produces: kind, declared
// dependencies and modules, creator shape, entry points, and the child
// components reachable by factory method or by creator method.
// Building a Descriptor from real source is a frontend's job, not this
// module's; Descriptors
// are normally handed to graph.Factory already built, by
// whatever frontend owns source parsing; pipe.ValidateDescriptor and
// oracle.ReflectOracle together let the bundled CLI build one from a
// small JSON document for demos and tests.
package component

import "bindgraph/binding"

// Kind classifies a Descriptor: whether it is
// a root component or a subcomponent, and whether it (and therefore
// its whole subtree) is a production component.
type Kind int

const (
	KindComponent Kind = iota
	KindSubcomponent
	KindProductionComponent
	KindProductionSubcomponent
)

// IsProduction reports whether k is one of the two production kinds.
func (k Kind) IsProduction() bool {
	return k == KindProductionComponent || k == KindProductionSubcomponent
}

// IsRoot reports whether k is a root (non-subcomponent) kind.
func (k Kind) IsRoot() bool {
	return k == KindComponent || k == KindProductionComponent
}

// EntryPoint is one abstract method on the component whose key must be
// resolved: either a provision/production accessor or a
// members-injection method.
type EntryPoint struct {
	MethodName string                    `json:"methodName" validate:"required"`
	Request    binding.DependencyRequest `json:"request"`
}

// DependencyMethod is one contribution method on a referenced
// component dependency: a method that, called on the dependency
// instance, produces a value for Key.
type DependencyMethod struct {
	MethodName   string
	Key          binding.Key
	IsProduction bool
}

// CreatorDescriptor describes a component's Builder/Factory type, if
// it declares one: the bound-instance parameters a caller must supply,
// and any subcomponent-creator entry points it exposes directly
// (rather than via an installed module's @Module(subcomponents=...)).
type CreatorDescriptor struct {
	CreatorType         string
	BoundInstanceParams []binding.Key

	// SubcomponentCreators lists the subcomponent-creator entry points
	// this creator exposes directly; e.g. a "SubBuilder sub()" method
	// on the component itself, with no @Module(subcomponents=...)
	// installing it. graph.Factory seeds a SUBCOMPONENT_CREATOR
	// binding for each of these while seeding the component's other
	// direct bindings, exactly as it does for module-declared
	// subcomponent creators.
	SubcomponentCreators []CreatorEntryPoint
}

// CreatorEntryPoint is one subcomponent-creator method exposed
// directly on a component's creator, naming the creator type the
// entry point returns and the subcomponent that creator builds.
type CreatorEntryPoint struct {
	MethodName       string `json:"methodName"`
	CreatorType      string `json:"creatorType"`
	SubcomponentType string `json:"subcomponentType"`
}

// ChildComponent is a subcomponent reachable from this component,
// either because a module installed in this component declares it
// (@Module(subcomponents=...), surfaced as a SUBCOMPONENT_CREATOR
// binding during resolution) or because the component itself declares
// a factory method that returns the child directly.
type ChildComponent struct {
	ComponentType string
	// FactoryMethodName is set when this child is reachable via a
	// no-creator factory method on the parent instead of through a
	// creator binding.
	FactoryMethodName string
	// FactoryMethodParams lists the factory method's parameters, in
	// declaration order, each naming the component requirement (a
	// dependency type name, an owned module type name, or a bound
	// instance key's string form) it supplies; the data
	// BindingGraph.FactoryMethodParameters reports back as a
	// requirement-to-parameter-name mapping.
	FactoryMethodParams []FactoryMethodParameter
}

// FactoryMethodParameter is one parameter of a no-creator factory
// method, naming the component requirement it supplies an instance of.
type FactoryMethodParameter struct {
	Name        string `json:"name"`
	Requirement string `json:"requirement"`
}

// Descriptor is everything the resolver consumes about one component
// or subcomponent.
type Descriptor struct {
	ComponentType string `json:"componentType" validate:"required"`
	Kind          Kind   `json:"kind" validate:"gte=0,lte=3"`

	// Dependencies are component-dependency type names declared via
	// @Component(dependencies = ...).
	Dependencies []string `json:"dependencies,omitempty"`
	// DependencyMethods maps a dependency type name to the contribution
	// methods discovered on it.
	DependencyMethods map[string][]DependencyMethod `json:"dependencyMethods,omitempty"`

	// Modules are the module type names installed directly on this
	// component (not yet transitively expanded; moduleindex.Build does
	// that).
	Modules []string `json:"modules,omitempty"`

	Creator *CreatorDescriptor `json:"creator,omitempty"`

	EntryPoints []EntryPoint `json:"entryPoints,omitempty" validate:"dive"`

	// Children enumerates subcomponents reachable via a factory method
	// declared directly on this component. Subcomponents reachable via
	// a creator installed through a module are discovered during
	// resolution instead, from SUBCOMPONENT_CREATOR bindings; they are
	// not listed here.
	Children []ChildComponent `json:"children,omitempty"`

	// Scopes lists the scope annotation names this component is
	// associated with (normally exactly one, but the design tolerates a
	// component having several for ownership matching purposes).
	Scopes []string `json:"scopes,omitempty"`
}

// HasScope reports whether the component is associated with the named
// scope.
func (d Descriptor) HasScope(scope string) bool {
	for _, s := range d.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
