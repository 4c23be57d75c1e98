// Package resolver implements the per-component resolution engine: it
// dispatches on request kind, handles synthetic-binding synthesis,
// tolerates cycles, and inherits bindings resolved by ancestors
// instead of re-deriving them. A graph build constructs one Resolver
// per component, parent-linked root to leaf, and discards them all
// once the immutable graph.BindingGraph has been assembled.
package resolver

import "bindgraph/binding"

// ResolvedBindings is the result of resolving one key within one
// component: every concrete Binding that applies, grouped by
// which component in the lineage owns it, plus the raw declarations
// that produced any synthetic bindings; kept around so a later
// ancestor can recompute ownership if a descendant later proves one of
// them local.
type ResolvedBindings struct {
	Key            binding.Key
	OwnerComponent string

	// BindingsByOwner and OwnerOrder together form an insertion-ordered
	// multimap: OwnerOrder lists each owner component the first time a
	// binding was assigned to it, BindingsByOwner holds that owner's
	// bindings in discovery order. Preserving this order is what makes
	// BindingGraph emission deterministic.
	BindingsByOwner map[string][]binding.Binding
	OwnerOrder      []string

	MultibindingDecls []binding.MultibindingDeclaration
	SubcomponentDecls []binding.SubcomponentDeclaration
	OptionalDecls     []binding.OptionalDeclaration

	MembersInjectionBinding *binding.Binding
}

func newResolvedBindings(k binding.Key, owner string) *ResolvedBindings {
	return &ResolvedBindings{
		Key:             k,
		OwnerComponent:  owner,
		BindingsByOwner: make(map[string][]binding.Binding),
	}
}

func (rb *ResolvedBindings) addBinding(owner string, b binding.Binding) {
	if _, ok := rb.BindingsByOwner[owner]; !ok {
		rb.OwnerOrder = append(rb.OwnerOrder, owner)
	}
	rb.BindingsByOwner[owner] = append(rb.BindingsByOwner[owner], b)
}

// IsEmpty reports that lookUpBindings found nothing at all for this
// key; the soft "missing binding" case a validator reports later.
func (rb *ResolvedBindings) IsEmpty() bool {
	return rb == nil || (len(rb.BindingsByOwner) == 0 && rb.MembersInjectionBinding == nil)
}

// Bindings flattens every owner's contributions, in owner-discovery
// order, for callers that don't care who owns what (e.g. a
// multibinding gathering its contributions).
func (rb *ResolvedBindings) Bindings() []binding.Binding {
	if rb == nil {
		return nil
	}
	var all []binding.Binding
	for _, owner := range rb.OwnerOrder {
		all = append(all, rb.BindingsByOwner[owner]...)
	}
	return all
}

// BindingsOwnedBy returns only the bindings this ResolvedBindings
// attributes to the named component.
func (rb *ResolvedBindings) BindingsOwnedBy(component string) []binding.Binding {
	if rb == nil {
		return nil
	}
	return rb.BindingsByOwner[component]
}

// orderedResolved is an insertion-ordered map from key string to
// ResolvedBindings; both of a Resolver's result maps use it so that
// the first resolution order of each key survives into BindingGraph
// emission.
type orderedResolved struct {
	byKey map[string]*ResolvedBindings
	order []string
}

func newOrderedResolved() *orderedResolved {
	return &orderedResolved{byKey: make(map[string]*ResolvedBindings)}
}

func (o *orderedResolved) has(keyStr string) bool {
	_, ok := o.byKey[keyStr]
	return ok
}

func (o *orderedResolved) get(keyStr string) (*ResolvedBindings, bool) {
	rb, ok := o.byKey[keyStr]
	return rb, ok
}

func (o *orderedResolved) put(keyStr string, rb *ResolvedBindings) {
	if _, exists := o.byKey[keyStr]; !exists {
		o.order = append(o.order, keyStr)
	}
	o.byKey[keyStr] = rb
}

func (o *orderedResolved) entries() []*ResolvedBindings {
	out := make([]*ResolvedBindings, 0, len(o.order))
	for _, k := range o.order {
		out = append(out, o.byKey[k])
	}
	return out
}
