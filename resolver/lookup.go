package resolver

import (
	"bindgraph/binding"
	"bindgraph/key"
)

// keysMatchingRequest computes the alternate spellings of k that could
// satisfy the same request: itself, the Set<Produced<T>> -> Set<T>
// unwrap, the Producer<->Provider map-value rewraps in both
// directions, and the implicit framework map variants.
func (r *Resolver) keysMatchingRequest(k binding.Key) []binding.Key {
	matching := []binding.Key{k}

	if unwrapped, ok := r.keyFactory.UnwrapSetKey(k, key.WrapperProduced); ok {
		matching = append(matching, unwrapped)
	}
	if rewrapped, ok := r.keyFactory.RewrapMapKey(k, key.WrapperProducer, key.WrapperProvider); ok {
		matching = append(matching, rewrapped)
	}
	if rewrapped, ok := r.keyFactory.RewrapMapKey(k, key.WrapperProvider, key.WrapperProducer); ok {
		matching = append(matching, rewrapped)
	}
	matching = append(matching, r.keyFactory.ImplicitFrameworkMapKeys(k)...)

	return matching
}

// lookUpBindings gathers every declaration matching k across the
// lineage, synthesizes whatever the gathered declarations imply
// (multibinding, subcomponent creator, optional, members injector),
// falls back to @Inject discovery, and partitions the result by owning
// component.
func (r *Resolver) lookUpBindings(k binding.Key) *ResolvedBindings {
	matching := r.keysMatchingRequest(k)
	rb := newResolvedBindings(k, r.ComponentType())

	var multibindingContribs []binding.Binding
	var sawMultibindingDecl, sawOptionalDecl bool
	isMap := k.Type.Wrapper == key.WrapperMap

	for _, mk := range matching {
		for _, res := range r.lineage() {
			for _, b := range res.localExplicitBindings(mk) {
				owner := r.getOwningComponent(mk, b, res)
				rb.addBinding(owner, b)
			}
			for _, decl := range res.index.Delegates(mk) {
				b := r.createDelegateBinding(res, decl)
				owner := r.getOwningComponent(mk, b, res)
				rb.addBinding(owner, b)
			}
			for _, contribDecl := range res.index.Contributions(mk.AsAggregate()) {
				multibindingContribs = append(multibindingContribs, contribDecl.Binding)
			}

			if decls := res.index.Multibindings(mk.AsAggregate()); len(decls) > 0 {
				sawMultibindingDecl = true
				rb.MultibindingDecls = append(rb.MultibindingDecls, decls...)
			}
			rb.SubcomponentDecls = append(rb.SubcomponentDecls, res.index.Subcomponents(mk)...)
		}
	}

	// Optional declarations are indexed under the *unwrapped* key.
	if underlying, ok := r.keyFactory.UnwrapOptional(k); ok {
		for _, res := range r.lineage() {
			rb.OptionalDecls = append(rb.OptionalDecls, res.index.Optionals(underlying)...)
		}
		sawOptionalDecl = len(rb.OptionalDecls) > 0
	}

	// Synthesize, if the relevant inputs are non-empty.
	if sawMultibindingDecl || len(multibindingContribs) > 0 {
		aggKey := k.AsAggregate()
		synthetic := r.bf.SyntheticMultibinding(aggKey, isMap, multibindingContribs)
		rb.addBinding(r.ComponentType(), synthetic)
	}

	for _, decl := range rb.SubcomponentDecls {
		// The owning resolver is the one whose installed modules
		// declare this subcomponent's creator, not necessarily the
		// resolver that first looked the key up.
		owner := r.declaringResolver(k)
		owner.EnqueueSubcomponent(decl.SubcomponentType)
	}
	if len(rb.SubcomponentDecls) > 0 {
		creatorBinding := r.bf.SubcomponentCreatorBinding(rb.SubcomponentDecls)
		rb.addBinding(r.ComponentType(), creatorBinding)
	}

	if underlying, ok := r.keyFactory.UnwrapOptional(k); ok && sawOptionalDecl {
		underlyingResolved := r.lookUpBindings(underlying)
		requestedKind := binding.Instance
		synthetic := r.bf.SyntheticOptionalBinding(k, underlying, requestedKind, underlyingResolved.Bindings())
		rb.addBinding(r.ComponentType(), synthetic)
	}

	if k.Type.Wrapper == key.WrapperMembersInjector && k.Type.Element != nil {
		target := binding.New(*k.Type.Element).WithQualifier(k.Qualifier)
		injectorBinding := r.injectReg.GetOrFindMembersInjectorProvisionBinding(k, target)
		rb.addBinding(r.ComponentType(), *injectorBinding)
	}

	// Fall back to @Inject-constructor discovery if still empty.
	if len(rb.BindingsByOwner) == 0 {
		if injected, ok := r.injectReg.GetOrFindProvisionBinding(k); ok {
			switch {
			case !r.injectedScopeMismatched(injected):
				rb.addBinding(r.ComponentType(), *injected)
			case r.aot:
				// Building subcomponent graphs ahead of their ancestors:
				// withhold the binding entirely; a future ancestor whose
				// scope matches will claim it.
			default:
				// The mismatch is a user error, not ours to report; keep
				// the binding, marked, so a validator can attribute it.
				deferred := *injected
				deferred.DeferredScope = true
				rb.addBinding(r.ComponentType(), deferred)
			}
		}
	}

	return rb
}

// injectedScopeMismatched reports whether a discovered @Inject
// binding's scope matches no component in the current lineage while
// resolving below the true root; the "incorrectly scoped for a
// partial graph" case.
func (r *Resolver) injectedScopeMismatched(b *binding.Binding) bool {
	if b.Scope == "" || r.parent == nil {
		return false
	}
	for res := r; res != nil; res = res.parent {
		if res.descriptor.HasScope(b.Scope) {
			return false
		}
	}
	return true
}

// createDelegateBinding materializes one @Binds declaration by
// resolving its right-hand side first, so the minted delegate's
// binding type can match whatever it aliases. A delegate whose RHS is
// already mid-resolution, or resolves to nothing, becomes an
// unresolved placeholder instead.
func (r *Resolver) createDelegateBinding(owner *Resolver, decl binding.DelegateDeclaration) binding.Binding {
	rhsKey := decl.DelegateRequest.Key
	rhsKS := rhsKey.String()

	if owner.onCycleStack(rhsKS) {
		return r.bf.UnresolvedDelegateBinding(decl)
	}

	owner.pushCycle(rhsKS)
	resolved := owner.lookUpBindings(rhsKey)
	owner.popCycle()

	concrete := resolved.Bindings()
	if len(concrete) == 0 {
		return r.bf.UnresolvedDelegateBinding(decl)
	}
	return r.bf.DelegateBinding(decl, concrete[0])
}

// declaringResolver returns the closest-to-leaf resolver in this
// resolver's lineage whose ModuleIndex declares a subcomponent creator
// for k, falling back to r itself if none do.
func (r *Resolver) declaringResolver(k binding.Key) *Resolver {
	lineage := r.lineage()
	for i := len(lineage) - 1; i >= 0; i-- {
		if len(lineage[i].index.Subcomponents(k)) > 0 {
			return lineage[i]
		}
	}
	return r
}
