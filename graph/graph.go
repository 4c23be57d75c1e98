// Package graph implements the binding-graph factory and its product,
// BindingGraph: the top-level orchestrator that builds one Resolver
// per component, seeds it with the bindings the component descriptor
// implies on its own (component-self, component-dependency methods,
// bound instances), drives its entry points, recursively builds every
// discovered subcomponent, and assembles the immutable result tree.
package graph

import (
	"bindgraph/binding"
	"bindgraph/component"
	"bindgraph/errorsx"
	"bindgraph/eventbus"
	"bindgraph/injectregistry"
	"bindgraph/interceptor"
	"bindgraph/key"
	"bindgraph/moduleindex"
	"bindgraph/resolver"
)

// implicit module type names the frontend is expected to generate for
// production components: a monitoring module and a
// production-executor module, installed whenever a production
// component/subcomponent has a non-production parent or no parent at
// all. This module never generates them itself; Descriptors
// referencing these names are expected to have a corresponding
// moduleindex.Module registered, the same way any other module is.
const (
	ImplicitMonitoringModule         = "$$MonitoringModule"
	ImplicitProductionExecutorModule = "$$ProductionExecutorModule"
)

// Config is the set of resolution knobs a caller fixes before Create,
// plus two optional hooks installed on every resolver this Factory
// builds: an event bus publishing resolution lifecycle events, and an
// interceptor chain timing/logging each entry-point resolution. Both
// hooks are nil by default.
type Config struct {
	CreateFullBindingGraph                      bool
	AheadOfTimeSubcomponents                    bool
	IgnorePrivateAndStaticInjectionForComponent bool

	// Bus, if set, receives component.resolving/component.resolved/
	// subcomponent.discovered/key.resolved events as this Factory
	// drives resolution.
	Bus *eventbus.Bus
	// Chain, if set, is installed on every resolver this Factory
	// builds, wrapping each top-level entry-point resolution
	// (resolver.Resolver.SetInterceptorChain).
	Chain *interceptor.Chain
}

// publish is a nil-safe helper: Factory.build calls it unconditionally
// and it only does anything when a Bus was configured.
func (f *Factory) publish(name string, payload interface{}) {
	if f.cfg.Bus == nil {
		return
	}
	f.cfg.Bus.Publish(eventbus.New(name, payload))
}

// Factory builds BindingGraphs. It owns the module registry (so every
// resolver in the tree can walk module.Includes against the same
// source of truth) and the descriptor registry (so a SUBCOMPONENT_CREATOR
// binding's bare type name can be turned back into a full
// component.Descriptor when the resolver's subcomponent queue drains).
type Factory struct {
	modules     *moduleindex.Registry
	descriptors map[string]component.Descriptor
	injectReg   *injectregistry.Registry
	keyFactory  key.Factory
	cfg         Config
}

// NewFactory returns a Factory. descriptors must contain every
// component and subcomponent reachable from root, keyed by
// ComponentType; this module does not parse source to discover them.
func NewFactory(modules *moduleindex.Registry, descriptors map[string]component.Descriptor, injectReg *injectregistry.Registry, cfg Config) *Factory {
	return &Factory{
		modules:     modules,
		descriptors: descriptors,
		injectReg:   injectReg,
		keyFactory:  key.NewFactory(),
		cfg:         cfg,
	}
}

// Create builds the BindingGraph for the component named rootType,
// along with a subgraph for every subcomponent discovered while
// resolving it.
func (f *Factory) Create(rootType string) (*BindingGraph, error) {
	root, ok := f.descriptors[rootType]
	if !ok {
		return nil, errorsx.NewNotYetAvailableError(rootType)
	}
	return f.build(nil, root)
}

func (f *Factory) build(parent *resolver.Resolver, desc component.Descriptor) (*BindingGraph, error) {
	f.publish(eventbus.ComponentResolving, desc.ComponentType)

	idx := moduleindex.Build(f.modules, f.installedModules(parent, desc))
	res := resolver.New(parent, desc, idx, f.injectReg, f.cfg.CreateFullBindingGraph, f.cfg.AheadOfTimeSubcomponents)
	res.SetInterceptorChain(f.cfg.Chain)

	f.seedExplicitBindings(res, desc)
	res.DriveEntryPoints()

	for _, k := range res.ResolvedContributionBindings() {
		f.publish(eventbus.KeyResolved, desc.ComponentType+"/"+k.Key.String())
	}

	for _, child := range desc.Children {
		if child.FactoryMethodName != "" {
			res.EnqueueSubcomponent(child.ComponentType)
		}
	}

	var subgraphs []*BindingGraph
	var buildErr error
	res.DrainSubcomponents(func(owningParent *resolver.Resolver, subType string) {
		if buildErr != nil {
			return
		}
		f.publish(eventbus.SubcomponentDiscovered, subType)
		childDesc, ok := f.descriptors[subType]
		if !ok {
			buildErr = errorsx.NewInternalError("unknown-subcomponent", subType)
			return
		}
		sg, err := f.build(owningParent, childDesc)
		if err != nil {
			buildErr = err
			return
		}
		subgraphs = append(subgraphs, sg)
	})
	if buildErr != nil {
		return nil, buildErr
	}

	bg := assemble(res, subgraphs, f.cfg.CreateFullBindingGraph)
	f.publish(eventbus.ComponentResolved, desc.ComponentType)
	return bg, nil
}

// installedModules returns desc.Modules plus the implicit
// monitoring/production-executor modules when desc is a production
// kind with no production ancestor.
func (f *Factory) installedModules(parent *resolver.Resolver, desc component.Descriptor) []string {
	modules := append([]string(nil), desc.Modules...)
	if !desc.Kind.IsProduction() {
		return modules
	}
	for p := parent; p != nil; p = p.Parent() {
		if p.Descriptor().Kind.IsProduction() {
			return modules
		}
	}
	return append(modules, ImplicitMonitoringModule, ImplicitProductionExecutorModule)
}

// seedExplicitBindings records the bindings a component descriptor
// implies directly, with no module involved.
func (f *Factory) seedExplicitBindings(res *resolver.Resolver, desc component.Descriptor) {
	res.SeedExplicit(binding.Binding{
		Key:  f.keyFactory.ForComponent(desc.ComponentType),
		Kind: binding.Component,
		Type: binding.TypeProvision,
	})

	for _, dep := range desc.Dependencies {
		res.SeedExplicit(binding.Binding{
			Key:  f.keyFactory.ForComponentDependency(dep),
			Kind: binding.ComponentDependency,
			Type: binding.TypeProvision,
		})
		for _, m := range desc.DependencyMethods[dep] {
			bindingType := binding.TypeProvision
			kind := binding.ComponentProvision
			if m.IsProduction {
				bindingType = binding.TypeProduction
				kind = binding.ComponentProduction
			}
			res.SeedExplicit(binding.Binding{
				Key:  m.Key,
				Kind: kind,
				Type: bindingType,
			})
		}
	}

	if desc.Creator != nil {
		for _, k := range desc.Creator.BoundInstanceParams {
			res.SeedExplicit(binding.Binding{
				Key:  k,
				Kind: binding.BoundInstance,
				Type: binding.TypeProvision,
			})
		}

		// Subcomponent-creator entry points the creator exposes
		// directly, with no @Module(subcomponents=...) installing them,
		// distinct from the module-declared SUBCOMPONENT_CREATOR
		// bindings resolver.lookUpBindings synthesizes on demand.
		for _, sc := range desc.Creator.SubcomponentCreators {
			res.SeedExplicit(binding.Binding{
				Key:         f.keyFactory.ForSubcomponentCreator(sc.CreatorType),
				Kind:        binding.SubcomponentCreator,
				Type:        binding.TypeProvision,
				IsSynthetic: true,
			})
			res.EnqueueSubcomponent(sc.SubcomponentType)
		}
	}
}
