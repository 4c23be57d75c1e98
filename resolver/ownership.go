package resolver

import "bindgraph/binding"

const productionScope = "ProductionScope"

// getOwningComponent decides which component in the lineage owns b:
// production and production-scoped bindings go to the highest
// installing (or production) component, @Reusable bindings to the
// lowest resolver that already resolved the key, and everything else
// to the lowest resolver that declares the binding, declares the
// subcomponent creator, or shares the binding's scope. declaredAt is
// the resolver whose local explicit/delegate/module declaration
// produced b, for the (common) case where ownership simply follows
// declaration; it may be nil for a purely synthetic binding
// (multibinding aggregate, optional, subcomponent creator, members
// injector) that has no single declaring resolver.
func (r *Resolver) getOwningComponent(k binding.Key, b binding.Binding, declaredAt *Resolver) string {
	lineage := r.lineage() // root -> leaf (this resolver)

	if b.Type == binding.TypeProduction || b.Scope == productionScope {
		if !b.IsSynthetic && declaredAt != nil {
			return declaredAt.ComponentType()
		}
		for _, res := range lineage {
			if res.descriptor.Kind.IsProduction() {
				return res.ComponentType()
			}
		}
		return r.ComponentType()
	}

	if b.IsReusable() {
		for i := len(lineage) - 1; i >= 0; i-- {
			if lineage[i].resolvedContribution.has(k.String()) {
				return lineage[i].ComponentType()
			}
		}
		return r.ComponentType()
	}

	for i := len(lineage) - 1; i >= 0; i-- {
		res := lineage[i]
		if declaredAt == res {
			return res.ComponentType()
		}
		if len(res.index.Subcomponents(k)) > 0 {
			return res.ComponentType()
		}
		if b.Scope != "" && res.descriptor.HasScope(b.Scope) {
			return res.ComponentType()
		}
	}

	return r.ComponentType()
}
