package key

// Factory groups the pure Key-transform operations from the design's
// KeyFactory: unwrapping Optional<T>, swapping Set<Produced<T>> for
// Set<T>, rewrapping Map<K,Producer<V>> as Map<K,Provider<V>> (and
// back), and enumerating the implicit framework variants of a plain
// Map<K,V> request. Every operation is pure and total: absence of a
// result is returned as (Key{}, false), never an error; there is
// nothing to fail, only "this transform does not apply to this key".
type Factory struct{}

// NewFactory returns a Factory. Factory carries no state; it exists as
// a type so call sites read as key.NewFactory().UnwrapOptional(k), the
// way BindingFactory and ModuleIndex are constructed in this module,
// rather than as a loose package-level function.
func NewFactory() Factory { return Factory{} }

// UnwrapOptional returns the key for T when k requests Optional<T>,
// preserving k's qualifier.
func (Factory) UnwrapOptional(k Key) (Key, bool) {
	if k.Type.Wrapper != WrapperOptional || k.Type.Element == nil {
		return Key{}, false
	}
	return Key{Type: *k.Type.Element, Qualifier: k.Qualifier}, true
}

// UnwrapSetKey returns the key for Set<T> when k requests
// Set<innerWrapper<T>>, e.g. UnwrapSetKey(Set<Produced<Foo>>, WrapperProduced) -> Set<Foo>.
func (Factory) UnwrapSetKey(k Key, innerWrapper Wrapper) (Key, bool) {
	if k.Type.Wrapper != WrapperSet || k.Type.Element == nil {
		return Key{}, false
	}
	inner := *k.Type.Element
	if inner.Wrapper != innerWrapper || inner.Element == nil {
		return Key{}, false
	}
	return Key{
		Type:                       Wrap(WrapperSet, *inner.Element),
		Qualifier:                  k.Qualifier,
		MultibindingContributionID: k.MultibindingContributionID,
	}, true
}

// RewrapMapKey returns the key for Map<K,to<V>> when k requests
// Map<K,from<V>>, e.g. rewrapping Producer<V> values as Provider<V>
// values (and vice versa) so the resolver can look up either spelling.
func (Factory) RewrapMapKey(k Key, from, to Wrapper) (Key, bool) {
	if k.Type.Wrapper != WrapperMap || k.Type.MapKey == nil || k.Type.MapValue == nil {
		return Key{}, false
	}
	val := *k.Type.MapValue
	if val.Wrapper != from || val.Element == nil {
		return Key{}, false
	}
	newVal := Wrap(to, *val.Element)
	return Key{
		Type:                       WrapMap(*k.Type.MapKey, newVal),
		Qualifier:                  k.Qualifier,
		MultibindingContributionID: k.MultibindingContributionID,
	}, true
}

// ImplicitFrameworkMapKeys returns, for a plain Map<K,V> request, the
// two framework variants Map<K,Provider<V>> and Map<K,Producer<V>>
// that a multibinding declaration may have contributed under instead.
func (f Factory) ImplicitFrameworkMapKeys(k Key) []Key {
	if k.Type.Wrapper != WrapperMap || k.Type.MapKey == nil || k.Type.MapValue == nil {
		return nil
	}
	// If the value type is itself already a framework wrapper, there is
	// nothing implicit left to generate.
	switch k.Type.MapValue.Wrapper {
	case WrapperProvider, WrapperProducer:
		return nil
	}
	mapKey := *k.Type.MapKey
	val := *k.Type.MapValue
	return []Key{
		{Type: WrapMap(mapKey, Wrap(WrapperProvider, val)), Qualifier: k.Qualifier, MultibindingContributionID: k.MultibindingContributionID},
		{Type: WrapMap(mapKey, Wrap(WrapperProducer, val)), Qualifier: k.Qualifier, MultibindingContributionID: k.MultibindingContributionID},
	}
}

// UnwrapMapValueType strips any framework wrapper from a Map<K,V>
// request's value type, returning the key for the bare contributed
// value, e.g. Map<K,Provider<V>> -> V (keeping K only for context,
// discarded by callers that just need V's key).
func (Factory) UnwrapMapValueType(k Key) (Key, bool) {
	if k.Type.Wrapper != WrapperMap || k.Type.MapValue == nil {
		return Key{}, false
	}
	val := *k.Type.MapValue
	if val.Wrapper == WrapperNone {
		return Key{Type: val, Qualifier: k.Qualifier}, true
	}
	if val.Element == nil {
		return Key{}, false
	}
	return Key{Type: *val.Element, Qualifier: k.Qualifier}, true
}

// ForComponent returns the key a component binds to itself under.
func (Factory) ForComponent(componentTypeName string) Key {
	return New(Plain(componentTypeName))
}

// ForComponentDependency returns the key a referenced dependency
// component is bound under.
func (Factory) ForComponentDependency(dependencyTypeName string) Key {
	return New(Plain(dependencyTypeName))
}

// ForSubcomponentCreator returns the key a subcomponent's creator
// (builder/factory) type is bound under.
func (Factory) ForSubcomponentCreator(creatorTypeName string) Key {
	return New(Plain(creatorTypeName))
}

// ForMembersInjector returns the key requesting MembersInjector<T>.
func (Factory) ForMembersInjector(target Type) Key {
	return New(Wrap(WrapperMembersInjector, target))
}
