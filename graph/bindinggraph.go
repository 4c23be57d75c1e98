package graph

import (
	"sort"

	"bindgraph/binding"
	"bindgraph/component"
	"bindgraph/resolver"
)

// BindingGraph is the immutable result of resolving one component.
// Once assemble returns one, nothing in this package mutates it
// further.
type BindingGraph struct {
	descriptor component.Descriptor

	contributionBindings     map[string]*resolver.ResolvedBindings
	membersInjectionBindings map[string]*resolver.ResolvedBindings

	subgraphs    []*BindingGraph
	ownedModules []string

	factoryMethodName   string
	factoryMethodParams map[string]string
	isFull              bool
}

// ComponentDescriptor returns the descriptor this graph was built from.
func (g *BindingGraph) ComponentDescriptor() component.Descriptor { return g.descriptor }

// ResolvedBindings serves members-injection requests from the
// members-injection map and everything else from the contribution map.
func (g *BindingGraph) ResolvedBindings(request binding.DependencyRequest) (*resolver.ResolvedBindings, bool) {
	if request.Kind == binding.MembersInjection {
		rb, ok := g.membersInjectionBindings[request.Key.String()]
		return rb, ok
	}
	rb, ok := g.contributionBindings[request.Key.String()]
	return rb, ok
}

// OwnedModules returns the modules this component owns (installed
// transitively minus anything already owned by an ancestor).
func (g *BindingGraph) OwnedModules() []string { return g.ownedModules }

// Subgraphs returns the BindingGraph for every discovered
// subcomponent, in discovery order.
func (g *BindingGraph) Subgraphs() []*BindingGraph { return g.subgraphs }

// IsFull reports whether this graph was built in full-binding-graph
// mode (every module-declared key resolved, not only the entry-point
// reachable ones).
func (g *BindingGraph) IsFull() bool { return g.isFull }

// FactoryMethodName returns the name of the factory method this
// subcomponent was reached through, or "" at the root / when reached
// via a creator instead.
func (g *BindingGraph) FactoryMethodName() string { return g.factoryMethodName }

// FactoryMethodParameters returns the mapping from a component
// requirement (as ComponentRequirements reports it) to the name of the factory
// method's parameter variable that supplies it. Empty when this graph
// has no factory method (factoryMethodName == "").
func (g *BindingGraph) FactoryMethodParameters() map[string]string {
	out := make(map[string]string, len(g.factoryMethodParams))
	for k, v := range g.factoryMethodParams {
		out[k] = v
	}
	return out
}

// ComponentDescriptors returns this graph's descriptor followed by
// every descendant's, in pre-order.
func (g *BindingGraph) ComponentDescriptors() []component.Descriptor {
	descs := []component.Descriptor{g.descriptor}
	for _, sg := range g.subgraphs {
		descs = append(descs, sg.ComponentDescriptors()...)
	}
	return descs
}

// ComponentRequirements computes the non-redundant set of things a
// generated component constructor needs: component
// dependencies, owned modules that actually contribute a binding used
// in the graph, and creator-supplied bound instances. A module is
// "used" iff some reachable binding names it as ContributingModule.
func (g *BindingGraph) ComponentRequirements() []string {
	used := make(map[string]bool)
	for _, rb := range g.contributionBindings {
		for _, b := range rb.BindingsOwnedBy(g.descriptor.ComponentType) {
			if b.ContributingModule != "" {
				used[b.ContributingModule] = true
			}
		}
	}

	var reqs []string
	reqs = append(reqs, g.descriptor.Dependencies...)
	for _, m := range g.ownedModules {
		if used[m] {
			reqs = append(reqs, m)
		}
	}
	if g.descriptor.Creator != nil {
		for _, k := range g.descriptor.Creator.BoundInstanceParams {
			reqs = append(reqs, k.String())
		}
	}
	return reqs
}

// ResolvedKeys returns the string form of every contribution key this
// graph resolved for its own component, sorted, mainly for reporting
// (cmd/bindgraph and httpserver render a graph without reaching into
// its private binding maps).
func (g *BindingGraph) ResolvedKeys() []string {
	keys := make([]string, 0, len(g.contributionBindings))
	for k := range g.contributionBindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// assemble builds the immutable BindingGraph from a completed resolver
// and its already-built subgraphs. isFull carries
// the factory's Config.CreateFullBindingGraph through, since the
// resolver itself only exposes behavior, not the flag that produced it.
func assemble(res *resolver.Resolver, subgraphs []*BindingGraph, isFull bool) *BindingGraph {
	contribution := make(map[string]*resolver.ResolvedBindings)
	for _, rb := range res.ResolvedContributionBindings() {
		contribution[rb.Key.String()] = rb
	}
	// Merge parent-inherited entries not already present locally: a key
	// the parent resolved but this component never even considered
	// still belongs in this graph's view, attributed to its original
	// owner. ResolvedBindings.OwnerComponent already records the true
	// owner, so no extra wrapper type is needed to carry that mark.
	if res.Parent() != nil {
		for res := res.Parent(); res != nil; res = res.Parent() {
			for _, rb := range res.ResolvedContributionBindings() {
				ks := rb.Key.String()
				if _, ok := contribution[ks]; !ok {
					contribution[ks] = rb
				}
			}
		}
	}

	membersInjection := make(map[string]*resolver.ResolvedBindings)
	for _, rb := range res.ResolvedMembersInjectionBindings() {
		membersInjection[rb.Key.String()] = rb
	}

	ownedModules := ownedModulesExcludingAncestors(res)

	factoryMethodName := ""
	var factoryMethodParams map[string]string
	desc := res.Descriptor()
	if res.Parent() != nil {
		for _, child := range res.Parent().Descriptor().Children {
			if child.ComponentType == desc.ComponentType {
				factoryMethodName = child.FactoryMethodName
				if len(child.FactoryMethodParams) > 0 {
					factoryMethodParams = make(map[string]string, len(child.FactoryMethodParams))
					for _, p := range child.FactoryMethodParams {
						factoryMethodParams[p.Requirement] = p.Name
					}
				}
			}
		}
	}

	return &BindingGraph{
		descriptor:               desc,
		contributionBindings:     contribution,
		membersInjectionBindings: membersInjection,
		subgraphs:                subgraphs,
		ownedModules:             ownedModules,
		factoryMethodName:        factoryMethodName,
		factoryMethodParams:      factoryMethodParams,
		isFull:                   isFull,
	}
}

func ownedModulesExcludingAncestors(res *resolver.Resolver) []string {
	ancestorModules := make(map[string]bool)
	for p := res.Parent(); p != nil; p = p.Parent() {
		for _, m := range p.Index().OwnedModules {
			ancestorModules[m] = true
		}
	}

	var owned []string
	for _, m := range res.Index().OwnedModules {
		if !ancestorModules[m] {
			owned = append(owned, m)
		}
	}
	return owned
}
