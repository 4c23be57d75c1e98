package resolver

import "bindgraph/binding"

// LocalDependencyChecker holds two memoized, mutually-recursive
// predicates deciding whether a previously resolved (ancestor-owned)
// key or binding transitively reaches into a contribution local to
// this resolver's component: the signal that tells Resolve it cannot
// simply inherit an ancestor's ResolvedBindings as-is.
type LocalDependencyChecker struct {
	owner *Resolver

	keyMemo     map[string]bool
	bindingMemo map[string]bool
}

func newLocalDependencyChecker(owner *Resolver) *LocalDependencyChecker {
	return &LocalDependencyChecker{
		owner:       owner,
		keyMemo:     make(map[string]bool),
		bindingMemo: make(map[string]bool),
	}
}

// DependsOnLocalBindingsKey is the public entry point Resolve calls.
// The memo tables survive across queries, but the visited-set must be
// fresh per top-level query: the same binding can legitimately recurse
// into the checker from different call sites.
func (c *LocalDependencyChecker) DependsOnLocalBindingsKey(k binding.Key) bool {
	return c.dependsOnLocalKey(k, make(map[string]bool))
}

func (c *LocalDependencyChecker) dependsOnLocalKey(k binding.Key, visited map[string]bool) bool {
	ks := k.String()
	if v, ok := c.keyMemo[ks]; ok {
		return v
	}
	if visited[ks] {
		// Already on the path for this query; report false here so the
		// cycle doesn't loop forever; the edge that actually closes the
		// cycle will have been evaluated from its other occurrence.
		return false
	}
	visited[ks] = true

	result := c.computeDependsOnLocalKey(k, visited)
	c.keyMemo[ks] = result
	return result
}

func (c *LocalDependencyChecker) computeDependsOnLocalKey(k binding.Key, visited map[string]bool) bool {
	rb, ok := c.owner.previouslyResolvedBindingsAboveSelf(k)
	if !ok {
		return false
	}

	if hasLocalMultibindingContribution(c.owner, rb) {
		return true
	}
	if hasLocalOptionalContribution(c.owner, rb) {
		return true
	}

	for _, b := range rb.Bindings() {
		if c.dependsOnLocalBinding(b, visited) {
			return true
		}
	}
	return false
}

// hasLocalMultibindingContribution reports whether rb is a multibinding
// whose contribution set includes at least one declaration installed
// in owner's own modules.
func hasLocalMultibindingContribution(owner *Resolver, rb *ResolvedBindings) bool {
	for _, decl := range rb.MultibindingDecls {
		if len(owner.index.Multibindings(decl.Key())) > 0 {
			return true
		}
	}
	for _, b := range rb.Bindings() {
		if b.Kind != binding.MultiboundSet && b.Kind != binding.MultiboundMap {
			continue
		}
		// A local contribution carries its own contribution id, so it is
		// never among the ancestor aggregate's dependency keys; ask the
		// local index for contributions to the aggregate directly.
		if len(owner.index.Contributions(b.Key.AsAggregate())) > 0 {
			return true
		}
		for _, dep := range b.Dependencies {
			if len(owner.localExplicitBindings(dep.Key)) > 0 {
				return true
			}
		}
	}
	return false
}

// hasLocalOptionalContribution reports whether rb is an optional
// binding whose underlying key has a contribution local to owner. The
// underlying key comes from unwrapping rb's own key, not from the
// binding's dependencies: an absent optional has no dependencies at
// all, yet a local provider for the underlying key still turns it
// present.
func hasLocalOptionalContribution(owner *Resolver, rb *ResolvedBindings) bool {
	underlying, ok := owner.keyFactory.UnwrapOptional(rb.Key)
	if !ok {
		return false
	}
	for _, b := range rb.Bindings() {
		if b.Kind != binding.Optional {
			continue
		}
		if owner.hasLocalBindingsFor(underlying) {
			return true
		}
	}
	return false
}

// dependsOnLocalBinding is the second predicate: only non-production,
// unscoped-or-@Reusable bindings are inspected, since a scoped
// non-reusable binding can never reach back down into a descendant.
func (c *LocalDependencyChecker) dependsOnLocalBinding(b binding.Binding, visited map[string]bool) bool {
	key := bindingMemoKey(b)
	if v, ok := c.bindingMemo[key]; ok {
		return v
	}

	if b.Type == binding.TypeProduction {
		c.bindingMemo[key] = false
		return false
	}
	if b.IsScoped() && !b.IsReusable() {
		c.bindingMemo[key] = false
		return false
	}

	result := false
	for _, dep := range b.Dependencies {
		if len(c.owner.localExplicitBindings(dep.Key)) > 0 {
			result = true
			break
		}
		if c.dependsOnLocalKey(dep.Key, visited) {
			result = true
			break
		}
	}

	c.bindingMemo[key] = result
	return result
}

func bindingMemoKey(b binding.Binding) string {
	return b.Key.String() + "|" + b.Kind.String()
}

// previouslyResolvedBindingsAboveSelf walks only this resolver's
// ancestors (not itself) for an existing ResolvedBindings, the view of
// the component deciding whether it may inherit.
func (r *Resolver) previouslyResolvedBindingsAboveSelf(k binding.Key) (*ResolvedBindings, bool) {
	if r.parent == nil {
		return nil, false
	}
	return r.parent.previouslyResolvedBindings(k)
}
