// Package key implements the canonical, hashable Key value type used
// throughout the resolver to identify a requested binding, plus the
// pure type-transform functions (KeyFactory in the design) needed to
// synthesize and unwrap framework types: Optional<T>, Set<Produced<T>>,
// Map<K,Producer<V>>, and friends.
package key

import "fmt"

// Wrapper identifies a framework type that wraps another type, the way
// Optional<T>, Set<T>, and Map<K,V> wrap their element/value types.
type Wrapper string

const (
	WrapperNone            Wrapper = ""
	WrapperOptional        Wrapper = "Optional"
	WrapperSet             Wrapper = "Set"
	WrapperMap             Wrapper = "Map"
	WrapperLazy            Wrapper = "Lazy"
	WrapperProvider        Wrapper = "Provider"
	WrapperProducer        Wrapper = "Producer"
	WrapperProduced        Wrapper = "Produced"
	WrapperFuture          Wrapper = "ListenableFuture"
	WrapperMembersInjector Wrapper = "MembersInjector"
)

// Type is a canonical reference to a declared type as seen by the
// resolver. Real type identity (generics, subtyping, imports) is owned
// by oracle.TypeOracle; Type only needs to carry enough structure for
// the synthetic-binding machinery in this package and in binding/resolver
// to pattern-match on framework wrappers.
type Type struct {
	// Name is the base type's canonical name (e.g. "com.app.Foo"), or,
	// for Map, unused in favor of MapKey/MapValue.
	Name string
	// Wrapper is WrapperNone for a plain type, otherwise identifies
	// which framework wrapper this Type represents.
	Wrapper Wrapper
	// Element is the wrapped type for single-argument wrappers
	// (Optional, Set, Lazy, Provider, Producer, Produced, MembersInjector,
	// ListenableFuture). Nil when Wrapper == WrapperNone or WrapperMap.
	Element *Type
	// MapKey/MapValue are populated only when Wrapper == WrapperMap.
	MapKey   *Type
	MapValue *Type
}

// Plain builds a bare, unwrapped Type reference.
func Plain(name string) Type { return Type{Name: name} }

// Wrap builds a single-argument wrapped Type, e.g. Wrap(WrapperOptional, Plain("Foo")).
func Wrap(w Wrapper, element Type) Type {
	return Type{Wrapper: w, Element: &element}
}

// WrapMap builds a Map<K,V> Type reference.
func WrapMap(mapKey, mapValue Type) Type {
	return Type{Wrapper: WrapperMap, MapKey: &mapKey, MapValue: &mapValue}
}

// String renders a canonical, deterministic textual form of the type.
// Two structurally equal Types always render identically; this is what
// makes Key safe to use as a map key via its own String method.
func (t Type) String() string {
	switch t.Wrapper {
	case WrapperNone:
		return t.Name
	case WrapperMap:
		key, val := "?", "?"
		if t.MapKey != nil {
			key = t.MapKey.String()
		}
		if t.MapValue != nil {
			val = t.MapValue.String()
		}
		return fmt.Sprintf("Map<%s,%s>", key, val)
	default:
		elem := "?"
		if t.Element != nil {
			elem = t.Element.String()
		}
		return fmt.Sprintf("%s<%s>", t.Wrapper, elem)
	}
}

// Equal reports whether two Types are structurally identical.
func (t Type) Equal(o Type) bool { return t.String() == o.String() }

// Key is the canonical identifier for a binding's output: a declared
// type, an optional qualifier annotation, and an optional multibinding
// contribution id distinguishing one contribution to a set/map from
// its siblings and from the aggregate itself.
type Key struct {
	Type                       Type
	Qualifier                  string
	MultibindingContributionID string
}

// New builds a Key with no qualifier and no contribution id.
func New(t Type) Key { return Key{Type: t} }

// WithQualifier returns a copy of k carrying the given qualifier.
func (k Key) WithQualifier(q string) Key {
	k.Qualifier = q
	return k
}

// WithContributionID returns a copy of k tagged as one individual
// contribution to a multibinding.
func (k Key) WithContributionID(id string) Key {
	k.MultibindingContributionID = id
	return k
}

// AsAggregate strips any multibinding contribution id, returning the
// key that identifies the aggregate Set<T>/Map<K,V> as a whole.
func (k Key) AsAggregate() Key {
	k.MultibindingContributionID = ""
	return k
}

// String renders a canonical, hashable textual form of the key. It is
// used as the map key throughout binding/resolver/graph; Go structs
// containing pointers (Type.Element) are not otherwise comparable by
// structure, and the canonical string makes equality structural.
func (k Key) String() string {
	s := k.Type.String()
	if k.Qualifier != "" {
		s = k.Qualifier + "@" + s
	}
	if k.MultibindingContributionID != "" {
		s += "#" + k.MultibindingContributionID
	}
	return s
}

// Equal reports whether two Keys are structurally identical.
func (k Key) Equal(o Key) bool { return k.String() == o.String() }
