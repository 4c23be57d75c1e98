package resolver

import (
	"bindgraph/binding"
	"bindgraph/component"
	"bindgraph/injectregistry"
	"bindgraph/interceptor"
	"bindgraph/key"
	"bindgraph/moduleindex"
)

// Resolver resolves keys for exactly one component, consulting its
// parent's Resolver (if any) for inheritance. It is discarded once its
// BindingGraph has been assembled; it is never reused across
// invocations.
type Resolver struct {
	parent     *Resolver
	descriptor component.Descriptor
	index      *moduleindex.Index
	injectReg  *injectregistry.Registry
	keyFactory key.Factory
	bf         binding.Factory

	// full enables full-binding-graph mode: after entry points, every
	// key declared by any installed module is also resolved.
	full bool

	// aot enables ahead-of-time subcomponent builds. When set, an
	// @Inject binding whose scope matches no current ancestor is
	// withheld entirely, to be claimed by a future ancestor; when
	// clear, the binding is kept with DeferredScope marked so a
	// validator can report the mismatch at the root.
	aot bool

	// seededExplicit holds the component-self / component-dependency /
	// bound-instance / subcomponent-creator-entry-point bindings seeded
	// directly by graph.Factory; these never come from a module, so
	// they live here rather than in index.
	seededExplicit map[string][]binding.Binding

	resolvedContribution     *orderedResolved
	resolvedMembersInjection *orderedResolved

	cycleStack []string

	localChecker *LocalDependencyChecker

	subcomponentsToResolve []string
	resolvedSubcomponents  map[string]bool

	// chain, when set, wraps each top-level entry-point resolution
	// driven by DriveEntryPoints (never the recursive dependency
	// resolves inside lookUpBindings) so a caller can time
	// and log "resolving this entry point" without the resolver core
	// itself depending on any particular interceptor.
	chain *interceptor.Chain
}

// SetInterceptorChain installs chain so DriveEntryPoints runs every
// top-level entry-point resolution through it. Passing nil disables
// interception (the default).
func (r *Resolver) SetInterceptorChain(chain *interceptor.Chain) {
	r.chain = chain
}

// New constructs a Resolver for descriptor, as a child of parent (nil
// for the root component). idx is the already-built ModuleIndex for
// descriptor's installed modules; injectReg is shared across the whole
// graph build so @Inject discovery is cached once, not per component.
func New(parent *Resolver, descriptor component.Descriptor, idx *moduleindex.Index, injectReg *injectregistry.Registry, full, aot bool) *Resolver {
	r := &Resolver{
		parent:                   parent,
		descriptor:               descriptor,
		index:                    idx,
		injectReg:                injectReg,
		keyFactory:               key.NewFactory(),
		bf:                       binding.NewFactory(),
		full:                     full,
		aot:                      aot,
		seededExplicit:           make(map[string][]binding.Binding),
		resolvedContribution:     newOrderedResolved(),
		resolvedMembersInjection: newOrderedResolved(),
		resolvedSubcomponents:    make(map[string]bool),
	}
	r.localChecker = newLocalDependencyChecker(r)
	return r
}

// ComponentType is descriptor.ComponentType, used throughout as the
// component identity string for ownership bookkeeping.
func (r *Resolver) ComponentType() string { return r.descriptor.ComponentType }

// Descriptor exposes the resolver's component descriptor to
// BindingGraphFactory for assembly.
func (r *Resolver) Descriptor() component.Descriptor { return r.descriptor }

// Parent exposes the parent resolver, or nil at the root.
func (r *Resolver) Parent() *Resolver { return r.parent }

// Index exposes the resolver's ModuleIndex.
func (r *Resolver) Index() *moduleindex.Index { return r.index }

// SeedExplicit records a directly-known binding (component-self,
// component-dependency, bound-instance, or a subcomponent-creator
// entry point not installed via a module) as owned by this component.
// graph.Factory seeds these before driving entry points.
func (r *Resolver) SeedExplicit(b binding.Binding) {
	ks := b.Key.String()
	r.seededExplicit[ks] = append(r.seededExplicit[ks], b)
}

// ResolvedContributionBindings returns every ResolvedBindings this
// resolver has produced, in first-resolution order.
func (r *Resolver) ResolvedContributionBindings() []*ResolvedBindings {
	return r.resolvedContribution.entries()
}

// ResolvedMembersInjectionBindings returns every members-injection
// ResolvedBindings this resolver has produced, in resolution order.
func (r *Resolver) ResolvedMembersInjectionBindings() []*ResolvedBindings {
	return r.resolvedMembersInjection.entries()
}

func (r *Resolver) onCycleStack(ks string) bool {
	for _, k := range r.cycleStack {
		if k == ks {
			return true
		}
	}
	return false
}

func (r *Resolver) pushCycle(ks string) { r.cycleStack = append(r.cycleStack, ks) }
func (r *Resolver) popCycle()           { r.cycleStack = r.cycleStack[:len(r.cycleStack)-1] }

// previouslyResolvedBindings walks this resolver and its ancestors,
// returning the first ResolvedBindings found for k.
func (r *Resolver) previouslyResolvedBindings(k binding.Key) (*ResolvedBindings, bool) {
	for res := r; res != nil; res = res.parent {
		if rb, ok := res.resolvedContribution.get(k.String()); ok {
			return rb, true
		}
	}
	return nil, false
}

// lineage returns the resolver chain from root to this resolver
// (inclusive), the order every multi-key gather across ancestors runs
// in: root first, leaf last.
func (r *Resolver) lineage() []*Resolver {
	var chain []*Resolver
	for res := r; res != nil; res = res.parent {
		chain = append(chain, res)
	}
	// chain is currently leaf -> root; reverse to root -> leaf.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Resolve computes (or inherits) ResolvedBindings for k.
func (r *Resolver) Resolve(k binding.Key) {
	ks := k.String()
	if r.onCycleStack(ks) {
		// The originating (outer) resolve call will record k's bindings
		// together with its dependencies; this inner occurrence is the
		// cycle and must return without re-entering.
		return
	}
	if r.resolvedContribution.has(ks) {
		return
	}

	if r.parent != nil {
		if _, ok := r.parent.previouslyResolvedBindings(k); ok {
			// Recurse first so any local contribution along the chain
			// surfaces before we decide whether to inherit.
			r.parent.Resolve(k)

			if !r.localChecker.DependsOnLocalBindingsKey(k) && !r.hasLocalBindingsFor(k) {
				inherited, _ := r.parent.previouslyResolvedBindings(k)
				r.resolvedContribution.put(ks, inherited)
				return
			}
		}
	}

	r.pushCycle(ks)
	rb := r.lookUpBindings(k)
	r.resolvedContribution.put(ks, rb)
	for _, b := range rb.BindingsOwnedBy(r.ComponentType()) {
		r.resolveDependencies(b)
	}
	r.popCycle()
}

func (r *Resolver) resolveDependencies(b binding.Binding) {
	for _, dep := range b.Dependencies {
		if dep.Kind == binding.MembersInjection {
			r.ResolveMembersInjection(dep.Key)
		} else {
			r.Resolve(dep.Key)
		}
	}
}

// ResolveMembersInjection computes the members-injection
// ResolvedBindings for k.
func (r *Resolver) ResolveMembersInjection(k binding.Key) {
	ks := k.String()
	if r.resolvedMembersInjection.has(ks) {
		return
	}

	b := r.injectReg.GetOrFindMembersInjectionBinding(k)
	rb := newResolvedBindings(k, r.ComponentType())
	rb.MembersInjectionBinding = b
	r.resolvedMembersInjection.put(ks, rb)

	if b != nil {
		r.resolveDependencies(*b)
	}
}

// localExplicitBindings returns every explicit declaration contributing
// to k that this resolver itself owns (seeded or indexed from its own
// installed modules, not inherited from an ancestor).
func (r *Resolver) localExplicitBindings(k binding.Key) []binding.Binding {
	ks := k.String()
	bindings := append([]binding.Binding(nil), r.seededExplicit[ks]...)
	for _, decl := range r.index.Explicit(k) {
		bindings = append(bindings, decl.Binding)
	}
	return bindings
}

// hasLocalBindingsFor reports whether this component itself declares
// anything for k; a seeded or module-explicit binding, or an @Binds
// whose left-hand side is k. Any of these blocks inheriting an
// ancestor's ResolvedBindings as-is.
func (r *Resolver) hasLocalBindingsFor(k binding.Key) bool {
	return len(r.localExplicitBindings(k)) > 0 || len(r.index.Delegates(k)) > 0
}

// DriveEntryPoints resolves every entry point declared on this
// resolver's component, then, in full-binding-graph mode, every key
// declared by any installed module.
func (r *Resolver) DriveEntryPoints() {
	for _, ep := range r.descriptor.EntryPoints {
		resolveOne := func() error {
			if ep.Request.Kind == binding.MembersInjection {
				r.ResolveMembersInjection(ep.Request.Key)
			} else {
				r.Resolve(ep.Request.Key)
			}
			return nil
		}
		if r.chain == nil {
			resolveOne()
			continue
		}
		ctx := &interceptor.ResolveContext{
			Component:  r.ComponentType(),
			RequestKey: ep.Request.Key.String(),
		}
		r.chain.Run(ctx, resolveOne)
	}

	if r.full {
		for _, k := range allDeclaredKeys(r.index) {
			r.Resolve(k)
		}
	}
}

// allDeclaredKeys enumerates every key any indexed module declares,
// with multibinding contribution ids stripped, so a full graph resolves
// each aggregate once rather than once per contribution.
func allDeclaredKeys(idx *moduleindex.Index) []binding.Key {
	seen := make(map[string]bool)
	var keys []binding.Key
	add := func(k binding.Key) {
		agg := k.AsAggregate()
		if seen[agg.String()] {
			return
		}
		seen[agg.String()] = true
		keys = append(keys, agg)
	}
	for _, k := range idx.AllExplicitKeys() {
		add(k)
	}
	for _, k := range idx.AllDelegateKeys() {
		add(k)
	}
	for _, k := range idx.AllMultibindingKeys() {
		add(k)
	}
	return keys
}

// EnqueueSubcomponent appends a discovered subcomponent's component
// type name to this resolver's drain queue. The queue belongs to the
// resolver whose component declares the creator, not whichever
// resolver first encountered the key. The full component.Descriptor is
// looked up by graph.Factory during DrainSubcomponents, since Resolver
// itself has no descriptor registry.
func (r *Resolver) EnqueueSubcomponent(subcomponentType string) {
	r.subcomponentsToResolve = append(r.subcomponentsToResolve, subcomponentType)
}

// DrainSubcomponents pops subcomponent type names off this resolver's
// queue, FIFO, and invokes build for each not already resolved in this
// pass. build is supplied by graph.Factory, which knows how to look up
// the child's Descriptor, construct its ModuleIndex, and recurse.
func (r *Resolver) DrainSubcomponents(build func(parent *Resolver, subcomponentType string)) {
	for len(r.subcomponentsToResolve) > 0 {
		next := r.subcomponentsToResolve[0]
		r.subcomponentsToResolve = r.subcomponentsToResolve[1:]
		if r.resolvedSubcomponents[next] {
			continue
		}
		r.resolvedSubcomponents[next] = true
		build(r, next)
	}
}
