// Package binding defines the Binding record itself, the taxonomy of
// BindingKind/BindingType values, the BindingDeclaration umbrella used
// for indexing module contents, and the BindingFactory that constructs
// Binding values for every kind the resolver can produce or synthesize:
// explicit (@Provides/@Produces), @Inject-constructor, delegate
// (@Binds), multibinding, optional, subcomponent-creator, and
// members-injection bindings.
package binding

import "bindgraph/key"

// Key and Type are re-exported aliases so every binding/resolver/graph
// call site can write key.Key without importing the key package twice
// under two names; they are the same type, not a copy.
type (
	Key  = key.Key
	Type = key.Type
)

// New and Plain forward to the key package so declaration/factory code
// in this package can build Keys without a second import alias.
var (
	New     = key.New
	Plain   = key.Plain
	Wrap    = key.Wrap
	WrapMap = key.WrapMap
)

// Wrapper and its values are re-exported from key for the same reason.
type Wrapper = key.Wrapper

const (
	WrapperSet      = key.WrapperSet
	WrapperMap      = key.WrapperMap
	WrapperProducer = key.WrapperProducer
	WrapperProduced = key.WrapperProduced
)
