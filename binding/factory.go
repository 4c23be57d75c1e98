package binding

// Factory constructs Binding records for every kind the resolver needs
// to synthesize. It is pure: given the same inputs it always produces
// an equal Binding, and it never consults a TypeOracle or
// DiagnosticSink directly; both the real type information and any
// diagnosing are the caller's job.
type Factory struct{}

func NewFactory() Factory { return Factory{} }

// DelegateBinding mints a DELEGATE binding aliasing decl's key to
// whatever concrete binding resolvedDelegate represents. Its
// BindingType always matches resolvedDelegate's, because a delegate
// cannot change whether its target is produced synchronously or
// asynchronously.
func (Factory) DelegateBinding(decl DelegateDeclaration, resolvedDelegate Binding) Binding {
	return Binding{
		Key:                decl.Key(),
		Kind:               Delegate,
		Type:               resolvedDelegate.Type,
		ContributingModule: decl.ContributingModule(),
		Dependencies:       []DependencyRequest{decl.DelegateRequest},
		IsSynthetic:        true,
	}
}

// UnresolvedDelegateBinding mints a placeholder DELEGATE binding for a
// declaration whose right-hand side resolved to nothing concrete. The
// placeholder carries the declaration itself (via BindingElement) so a
// validator downstream can attribute a "missing binding" diagnostic to
// it; the resolver keeps going rather than failing the run.
func (Factory) UnresolvedDelegateBinding(decl DelegateDeclaration) Binding {
	return Binding{
		Key:                decl.Key(),
		Kind:               Delegate,
		Type:               TypeProvision,
		ContributingModule: decl.ContributingModule(),
		Dependencies:       []DependencyRequest{decl.DelegateRequest},
		IsSynthetic:        true,
		UnresolvedGeneric:  true,
		BindingElement:     decl,
	}
}

// SyntheticMultibinding builds the aggregate MULTIBOUND_SET or
// MULTIBOUND_MAP binding from its contributions. The aggregate is
// PRODUCTION if any contribution is PRODUCTION or if key's type itself
// demands an async value (Set<Produced<T>>, Map<K,Producer<V>>,
// Map<K,Produced<V>>); otherwise it is a plain PROVISION binding.
func (Factory) SyntheticMultibinding(aggregateKey Key, isMap bool, contributions []Binding) Binding {
	kind := MultiboundSet
	if isMap {
		kind = MultiboundMap
	}

	bindingType := TypeProvision
	if requiresProduction(aggregateKey) {
		bindingType = TypeProduction
	} else {
		for _, c := range contributions {
			if c.Type == TypeProduction {
				bindingType = TypeProduction
				break
			}
		}
	}

	deps := make([]DependencyRequest, 0, len(contributions))
	for _, c := range contributions {
		kind := Instance
		if bindingType == TypeProduction {
			kind = Produced
		}
		deps = append(deps, DependencyRequest{Key: c.Key, Kind: kind})
	}

	return Binding{
		Key:          aggregateKey,
		Kind:         kind,
		Type:         bindingType,
		Dependencies: deps,
		IsSynthetic:  true,
	}
}

func requiresProduction(k Key) bool {
	t := k.Type
	switch t.Wrapper {
	case WrapperSet:
		return t.Element != nil && t.Element.Wrapper == WrapperProduced
	case WrapperMap:
		if t.MapValue == nil {
			return false
		}
		switch t.MapValue.Wrapper {
		case WrapperProducer, WrapperProduced:
			return true
		}
	}
	return false
}

// SyntheticOptionalBinding builds the OPTIONAL binding for Optional<T>.
// If underlying has no concrete bindings at all, the result is an
// "absent" PROVISION binding with no dependencies. Otherwise it is a
// "present" binding depending on the underlying key; it is PRODUCTION
// if the underlying has any PRODUCTION binding or the caller requested
// the value as PRODUCER/PRODUCED, else PROVISION.
func (Factory) SyntheticOptionalBinding(optionalKey Key, underlyingKey Key, requestedValueKind RequestKind, underlyingBindings []Binding) Binding {
	if len(underlyingBindings) == 0 {
		return Binding{
			Key:         optionalKey,
			Kind:        Optional,
			Type:        TypeProvision,
			IsSynthetic: true,
		}
	}

	bindingType := TypeProvision
	if requestedValueKind == Producer || requestedValueKind == Produced {
		bindingType = TypeProduction
	} else {
		for _, b := range underlyingBindings {
			if b.Type == TypeProduction {
				bindingType = TypeProduction
				break
			}
		}
	}

	depKind := Instance
	if bindingType == TypeProduction {
		depKind = Produced
	}

	return Binding{
		Key:          optionalKey,
		Kind:         Optional,
		Type:         bindingType,
		Dependencies: []DependencyRequest{{Key: underlyingKey, Kind: depKind}},
		IsSynthetic:  true,
	}
}

// SubcomponentCreatorBinding builds the synthetic SUBCOMPONENT_CREATOR
// binding whose key is the creator type itself; it has no
// dependencies because a creator is constructed directly by the
// generated component, not resolved from other bindings.
func (Factory) SubcomponentCreatorBinding(decls []SubcomponentDeclaration) Binding {
	if len(decls) == 0 {
		return Binding{}
	}
	return Binding{
		Key:         decls[0].Key(),
		Kind:        SubcomponentCreator,
		Type:        TypeProvision,
		IsSynthetic: true,
	}
}

// MembersInjectorBinding wraps an already-resolved members-injection
// binding as a provision of MembersInjector<T>, for the case where a
// dependent asks for that wrapper type directly instead of requesting
// members injection outright.
func (Factory) MembersInjectorBinding(membersInjectorKey Key, target Key) Binding {
	return Binding{
		Key:          membersInjectorKey,
		Kind:         Provision,
		Type:         TypeProvision,
		Dependencies: []DependencyRequest{{Key: target, Kind: MembersInjection}},
		IsSynthetic:  true,
	}
}
