package moduleindex

import "bindgraph/binding"

// Index is the flattened result of walking one component's installed
// modules (plus every transitively-included module), with every
// declaration grouped by the key it contributes to. The resolver
// builds one Index per component and never walks module.Includes
// itself.
type Index struct {
	// OwnedModules are the modules installed in this component's Index,
	// in discovery order, module-type-deduplicated. A module installed
	// as an @Module(includes=...) of another owned module is still
	// "owned" by this component for componentRequirements purposes;
	// only owned modules that contribute a binding the component uses
	// end up in the requirement list; that filtering happens downstream
	// in graph, not here.
	OwnedModules []string

	explicit      map[string][]binding.ExplicitDeclaration
	contributions map[string][]binding.ExplicitDeclaration
	multibindings map[string][]binding.MultibindingDeclaration
	subcomponents map[string][]binding.SubcomponentDeclaration
	delegates     map[string][]binding.DelegateDeclaration
	optionals     map[string][]binding.OptionalDeclaration
}

// Explicit returns every @Provides/@Produces/@Binds-as-explicit
// declaration contributing to k, across every indexed module.
func (idx *Index) Explicit(k binding.Key) []binding.ExplicitDeclaration {
	return idx.explicit[k.String()]
}

// Contributions returns every @IntoSet/@IntoMap explicit declaration
// indexed under aggregateKey; i.e. every declaration whose own key,
// once its MultibindingContributionID is stripped, equals aggregateKey.
// Individual contributions are indexed under their own (per-contribution)
// key in Explicit, so the aggregate lookup needs this separate index.
func (idx *Index) Contributions(aggregateKey binding.Key) []binding.ExplicitDeclaration {
	return idx.contributions[aggregateKey.String()]
}

// Multibindings returns the @Multibinds/implicit-aggregate
// declarations for k (the aggregate Set<T>/Map<K,V> key itself).
func (idx *Index) Multibindings(k binding.Key) []binding.MultibindingDeclaration {
	return idx.multibindings[k.String()]
}

// Delegates returns every @Binds declaration whose left-hand side is k.
func (idx *Index) Delegates(k binding.Key) []binding.DelegateDeclaration {
	return idx.delegates[k.String()]
}

// Subcomponents returns the @Module(subcomponents=...) declarations
// keyed by their creator type's key.
func (idx *Index) Subcomponents(k binding.Key) []binding.SubcomponentDeclaration {
	return idx.subcomponents[k.String()]
}

// Optionals returns the @BindsOptionalOf declarations keyed by the
// *underlying* (unwrapped) key.
func (idx *Index) Optionals(k binding.Key) []binding.OptionalDeclaration {
	return idx.optionals[k.String()]
}

// AllExplicitKeys returns the key of every explicit declaration indexed
// here, one entry per declaration (callers needing distinct keys
// de-duplicate themselves); used to enumerate every key declared in
// any installed module for full-binding-graph mode.
func (idx *Index) AllExplicitKeys() []binding.Key {
	var keys []binding.Key
	for _, decls := range idx.explicit {
		for _, d := range decls {
			keys = append(keys, d.Key())
		}
	}
	return keys
}

// AllDelegateKeys returns the left-hand-side key of every @Binds
// declaration indexed here.
func (idx *Index) AllDelegateKeys() []binding.Key {
	var keys []binding.Key
	for _, decls := range idx.delegates {
		for _, d := range decls {
			keys = append(keys, d.Key())
		}
	}
	return keys
}

// AllMultibindingKeys returns the aggregate key of every multibinding
// declaration indexed here.
func (idx *Index) AllMultibindingKeys() []binding.Key {
	var keys []binding.Key
	for _, decls := range idx.multibindings {
		for _, d := range decls {
			keys = append(keys, d.Key())
		}
	}
	return keys
}

// Build walks moduleTypes and their transitive Includes closure inside
// r, de-duplicating repeated modules (a module reachable through two
// different include paths contributes its declarations exactly once),
// and groups every declaration it finds by key.
func Build(r *Registry, moduleTypes []string) *Index {
	idx := &Index{
		explicit:      make(map[string][]binding.ExplicitDeclaration),
		contributions: make(map[string][]binding.ExplicitDeclaration),
		multibindings: make(map[string][]binding.MultibindingDeclaration),
		subcomponents: make(map[string][]binding.SubcomponentDeclaration),
		delegates:     make(map[string][]binding.DelegateDeclaration),
		optionals:     make(map[string][]binding.OptionalDeclaration),
	}

	seen := make(map[string]bool)
	var walk func(moduleType string)
	walk = func(moduleType string) {
		if seen[moduleType] {
			return
		}
		seen[moduleType] = true

		m, ok := r.lookup(moduleType)
		if !ok {
			return
		}
		idx.OwnedModules = append(idx.OwnedModules, moduleType)

		for _, d := range m.Declarations.Explicit {
			k := d.Key().String()
			idx.explicit[k] = append(idx.explicit[k], d)
			if d.Key().MultibindingContributionID != "" {
				agg := d.Key().AsAggregate().String()
				idx.contributions[agg] = append(idx.contributions[agg], d)
			}
		}
		for _, d := range m.Declarations.Multibindings {
			k := d.Key().String()
			idx.multibindings[k] = append(idx.multibindings[k], d)
		}
		for _, d := range m.Declarations.Subcomponents {
			k := d.Key().String()
			idx.subcomponents[k] = append(idx.subcomponents[k], d)
		}
		for _, d := range m.Declarations.Delegates {
			k := d.Key().String()
			idx.delegates[k] = append(idx.delegates[k], d)
		}
		for _, d := range m.Declarations.Optionals {
			k := d.Key().String()
			idx.optionals[k] = append(idx.optionals[k], d)
		}

		for _, included := range m.Includes {
			walk(included)
		}
	}

	for _, mt := range moduleTypes {
		walk(mt)
	}

	return idx
}
