package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bindgraph/binding"
	"bindgraph/component"
	"bindgraph/injectregistry"
	"bindgraph/interceptor"
	"bindgraph/key"
	"bindgraph/moduleindex"
	"bindgraph/oracle"
)

func newTestResolver(t *testing.T, parent *Resolver, componentType string, r *moduleindex.Registry, installed []string, entryPoints []component.EntryPoint, full bool, o oracle.TypeOracle) *Resolver {
	t.Helper()
	idx := moduleindex.Build(r, installed)
	desc := component.Descriptor{ComponentType: componentType, Kind: component.KindComponent, EntryPoints: entryPoints}
	return New(parent, desc, idx, injectregistry.New(o), full, false)
}

type stubOracle struct {
	ctorParams map[string][]oracle.Member
	scopes     map[string]string
}

func (s *stubOracle) LookupType(string) (key.Type, bool) { return key.Type{}, false }
func (s *stubOracle) AllMembers(key.Type) []oracle.Member { return nil }
func (s *stubOracle) IsSubtype(a, b key.Type) bool { return a.Equal(b) }
func (s *stubOracle) HasAnnotation(string, string) bool { return false }
func (s *stubOracle) AnnotationValue(element, _, _ string) (string, bool) {
	scope, ok := s.scopes[element]
	return scope, ok
}
func (s *stubOracle) IsType(t key.Type, name string) bool { return t.Name == name }
func (s *stubOracle) ConstructorParams(t key.Type) ([]oracle.Member, bool) {
	p, ok := s.ctorParams[t.Name]
	return p, ok
}

func TestResolveTrivialProvision(t *testing.T) {
	reg := moduleindex.NewRegistry()
	fooKey := binding.New(binding.Plain("Foo"))
	fooBinding := binding.Binding{Key: fooKey, Kind: binding.Provision, Type: binding.TypeProvision}
	reg.Add(moduleindex.Module{
		Type: "M",
		Declarations: moduleindex.Declarations{
			Explicit: []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("M", fooBinding)},
		},
	})

	eps := []component.EntryPoint{{MethodName: "foo", Request: binding.DependencyRequest{Key: fooKey, Kind: binding.Instance}}}
	r := newTestResolver(t, nil, "C", reg, []string{"M"}, eps, false, &stubOracle{})

	r.DriveEntryPoints()

	rb, ok := r.resolvedContribution.get(fooKey.String())
	assert.True(t, ok)
	assert.Equal(t, "C", rb.OwnerComponent)
	bindings := rb.BindingsOwnedBy("C")
	assert.Len(t, bindings, 1)
	assert.Equal(t, binding.Provision, bindings[0].Kind)
}

func TestResolveInjectConstructorFallback(t *testing.T) {
	reg := moduleindex.NewRegistry()
	o := &stubOracle{ctorParams: map[string][]oracle.Member{"Bar": nil}}
	barKey := binding.New(binding.Plain("Bar"))
	eps := []component.EntryPoint{{MethodName: "bar", Request: binding.DependencyRequest{Key: barKey, Kind: binding.Instance}}}

	r := newTestResolver(t, nil, "Sub", reg, nil, eps, false, o)
	r.DriveEntryPoints()

	rb, ok := r.resolvedContribution.get(barKey.String())
	assert.True(t, ok)
	bindings := rb.BindingsOwnedBy("Sub")
	assert.Len(t, bindings, 1)
	assert.Equal(t, binding.Injection, bindings[0].Kind)
}

func TestResolveCycleTerminates(t *testing.T) {
	reg := moduleindex.NewRegistry()
	o := &stubOracle{ctorParams: map[string][]oracle.Member{
		"A": {{Name: "b", Type: key.Plain("B")}},
		"B": {{Name: "a", Type: key.Plain("A")}},
	}}
	aKey := binding.New(binding.Plain("A"))
	eps := []component.EntryPoint{{MethodName: "a", Request: binding.DependencyRequest{Key: aKey, Kind: binding.Instance}}}

	r := newTestResolver(t, nil, "C", reg, nil, eps, false, o)
	r.DriveEntryPoints()

	_, aOK := r.resolvedContribution.get(aKey.String())
	_, bOK := r.resolvedContribution.get(binding.New(binding.Plain("B")).String())
	assert.True(t, aOK)
	assert.True(t, bOK, "cycle must still resolve the second key reached through it")
}

func TestResolveInheritsFromParentWhenNoLocalContribution(t *testing.T) {
	reg := moduleindex.NewRegistry()
	bazKey := binding.New(binding.Plain("Baz"))
	bazBinding := binding.Binding{Key: bazKey, Kind: binding.Provision, Type: binding.TypeProvision}
	reg.Add(moduleindex.Module{
		Type:         "RootModule",
		Declarations: moduleindex.Declarations{Explicit: []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("RootModule", bazBinding)}},
	})

	rootEPs := []component.EntryPoint{{MethodName: "baz", Request: binding.DependencyRequest{Key: bazKey, Kind: binding.Instance}}}
	root := newTestResolver(t, nil, "Root", reg, []string{"RootModule"}, rootEPs, false, &stubOracle{})
	root.DriveEntryPoints()

	childEPs := []component.EntryPoint{{MethodName: "baz", Request: binding.DependencyRequest{Key: bazKey, Kind: binding.Instance}}}
	child := newTestResolver(t, root, "Child", moduleindex.NewRegistry(), nil, childEPs, false, &stubOracle{})
	child.DriveEntryPoints()

	rb, ok := child.resolvedContribution.get(bazKey.String())
	assert.True(t, ok)
	assert.Equal(t, "Root", rb.OwnerComponent, "unchallenged inheritance keeps the ancestor's ownership decision")
}

func TestResolveLocalMultibindingContributionPullsOwnershipDown(t *testing.T) {
	setKey := binding.New(binding.Wrap(binding.WrapperSet, binding.Plain("Item")))

	rootReg := moduleindex.NewRegistry()
	rootItem := binding.Binding{Key: setKey.WithContributionID("a"), Kind: binding.Provision, Type: binding.TypeProvision}
	rootReg.Add(moduleindex.Module{
		Type: "RootModule",
		Declarations: moduleindex.Declarations{
			Multibindings: []binding.MultibindingDeclaration{binding.NewMultibindingDeclaration("RootModule", setKey, false)},
			Explicit:      []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("RootModule", rootItem)},
		},
	})

	rootEPs := []component.EntryPoint{{MethodName: "items", Request: binding.DependencyRequest{Key: setKey, Kind: binding.Instance}}}
	root := newTestResolver(t, nil, "Root", rootReg, []string{"RootModule"}, rootEPs, false, &stubOracle{})
	root.DriveEntryPoints()

	childReg := moduleindex.NewRegistry()
	childItem := binding.Binding{Key: setKey.WithContributionID("b"), Kind: binding.Provision, Type: binding.TypeProvision}
	childReg.Add(moduleindex.Module{
		Type: "ChildModule",
		Declarations: moduleindex.Declarations{
			Multibindings: []binding.MultibindingDeclaration{binding.NewMultibindingDeclaration("ChildModule", setKey, false)},
			Explicit:      []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("ChildModule", childItem)},
		},
	})
	childEPs := []component.EntryPoint{{MethodName: "items", Request: binding.DependencyRequest{Key: setKey, Kind: binding.Instance}}}
	child := newTestResolver(t, root, "Child", childReg, []string{"ChildModule"}, childEPs, false, &stubOracle{})
	child.DriveEntryPoints()

	rb, ok := child.resolvedContribution.get(setKey.String())
	assert.True(t, ok)
	assert.Equal(t, "Child", rb.OwnerComponent, "a local multibinding contribution must pull ownership down from the ancestor")

	aggregate := rb.BindingsOwnedBy("Child")
	assert.Len(t, aggregate, 1)
	assert.Equal(t, binding.MultiboundSet, aggregate[0].Kind)
	assert.Len(t, aggregate[0].Dependencies, 2, "aggregate must include both the inherited and the local contribution")
}

// TestResolveLocalSetContributionWithoutLocalDeclaration is the
// contributions-only variant of the pull-down case: the child module
// adds an @IntoSet item but declares no aggregate of its own, and the
// re-resolution must still happen.
func TestResolveLocalSetContributionWithoutLocalDeclaration(t *testing.T) {
	setKey := binding.New(binding.Wrap(binding.WrapperSet, binding.Plain("Item")))

	rootReg := moduleindex.NewRegistry()
	rootItem := binding.Binding{Key: setKey.WithContributionID("a"), Kind: binding.Provision, Type: binding.TypeProvision}
	rootReg.Add(moduleindex.Module{
		Type: "RootModule",
		Declarations: moduleindex.Declarations{
			Multibindings: []binding.MultibindingDeclaration{binding.NewMultibindingDeclaration("RootModule", setKey, false)},
			Explicit:      []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("RootModule", rootItem)},
		},
	})

	rootEPs := []component.EntryPoint{{MethodName: "items", Request: binding.DependencyRequest{Key: setKey, Kind: binding.Instance}}}
	root := newTestResolver(t, nil, "Root", rootReg, []string{"RootModule"}, rootEPs, false, &stubOracle{})
	root.DriveEntryPoints()

	childReg := moduleindex.NewRegistry()
	childItem := binding.Binding{Key: setKey.WithContributionID("b"), Kind: binding.Provision, Type: binding.TypeProvision}
	childReg.Add(moduleindex.Module{
		Type: "ChildModule",
		Declarations: moduleindex.Declarations{
			Explicit: []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("ChildModule", childItem)},
		},
	})
	childEPs := []component.EntryPoint{{MethodName: "items", Request: binding.DependencyRequest{Key: setKey, Kind: binding.Instance}}}
	child := newTestResolver(t, root, "Child", childReg, []string{"ChildModule"}, childEPs, false, &stubOracle{})
	child.DriveEntryPoints()

	rb, ok := child.resolvedContribution.get(setKey.String())
	assert.True(t, ok)
	assert.Equal(t, "Child", rb.OwnerComponent)

	aggregate := rb.BindingsOwnedBy("Child")
	assert.Len(t, aggregate, 1)
	assert.Len(t, aggregate[0].Dependencies, 2)
}

// TestResolveOptionalAbsentThenPresentInChild resolves Optional<Qux>
// absent at the root, then again in a child whose module provides Qux;
// the child must own a present binding instead of inheriting absence.
func TestResolveOptionalAbsentThenPresentInChild(t *testing.T) {
	quxKey := binding.New(binding.Plain("Qux"))
	optKey := binding.New(binding.Wrap(key.WrapperOptional, binding.Plain("Qux")))

	rootReg := moduleindex.NewRegistry()
	rootReg.Add(moduleindex.Module{
		Type: "RootModule",
		Declarations: moduleindex.Declarations{
			Optionals: []binding.OptionalDeclaration{binding.NewOptionalDeclaration("RootModule", quxKey)},
		},
	})
	rootEPs := []component.EntryPoint{{MethodName: "qux", Request: binding.DependencyRequest{Key: optKey, Kind: binding.Instance}}}
	root := newTestResolver(t, nil, "Root", rootReg, []string{"RootModule"}, rootEPs, false, &stubOracle{})
	root.DriveEntryPoints()

	rootRB, ok := root.resolvedContribution.get(optKey.String())
	assert.True(t, ok)
	absent := rootRB.BindingsOwnedBy("Root")
	assert.Len(t, absent, 1)
	assert.Equal(t, binding.Optional, absent[0].Kind)
	assert.Empty(t, absent[0].Dependencies, "no provider anywhere means an absent optional")

	childReg := moduleindex.NewRegistry()
	childReg.Add(moduleindex.Module{
		Type: "ChildModule",
		Declarations: moduleindex.Declarations{
			Explicit: []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("ChildModule",
				binding.Binding{Key: quxKey, Kind: binding.Provision, Type: binding.TypeProvision})},
		},
	})
	childEPs := []component.EntryPoint{{MethodName: "qux", Request: binding.DependencyRequest{Key: optKey, Kind: binding.Instance}}}
	child := newTestResolver(t, root, "Child", childReg, []string{"ChildModule"}, childEPs, false, &stubOracle{})
	child.DriveEntryPoints()

	rb, ok := child.resolvedContribution.get(optKey.String())
	assert.True(t, ok)
	assert.Equal(t, "Child", rb.OwnerComponent, "a local provider must turn the inherited absent optional present")
	present := rb.BindingsOwnedBy("Child")
	assert.Len(t, present, 1)
	assert.Len(t, present[0].Dependencies, 1)
	assert.True(t, present[0].Dependencies[0].Key.Equal(quxKey))
}

// TestResolveScopeMismatchedInjectBinding covers both fates of an
// @Inject binding whose scope matches nothing in the lineage: withheld
// when subcomponent graphs are built ahead of their ancestors, kept
// but marked otherwise.
func TestResolveScopeMismatchedInjectBinding(t *testing.T) {
	bazKey := binding.New(binding.Plain("Baz"))
	o := &stubOracle{
		ctorParams: map[string][]oracle.Member{"Baz": nil},
		scopes:     map[string]string{"Baz": "Singleton"},
	}
	eps := []component.EntryPoint{{MethodName: "baz", Request: binding.DependencyRequest{Key: bazKey, Kind: binding.Instance}}}

	build := func(aot bool) *Resolver {
		reg := moduleindex.NewRegistry()
		rootDesc := component.Descriptor{ComponentType: "Root", Kind: component.KindComponent}
		root := New(nil, rootDesc, moduleindex.Build(reg, nil), injectregistry.New(o), false, aot)
		subDesc := component.Descriptor{ComponentType: "Sub", Kind: component.KindSubcomponent, EntryPoints: eps}
		sub := New(root, subDesc, moduleindex.Build(reg, nil), injectregistry.New(o), false, aot)
		sub.DriveEntryPoints()
		return sub
	}

	deferred := build(false)
	rb, ok := deferred.resolvedContribution.get(bazKey.String())
	assert.True(t, ok)
	kept := rb.BindingsOwnedBy("Sub")
	assert.Len(t, kept, 1)
	assert.True(t, kept[0].DeferredScope)

	withheld := build(true)
	rb, ok = withheld.resolvedContribution.get(bazKey.String())
	assert.True(t, ok)
	assert.Empty(t, rb.Bindings(), "ahead-of-time mode leaves the key for a matching ancestor")
}

// TestDriveEntryPointsRunsInstalledInterceptorChain confirms
// SetInterceptorChain wraps each top-level entry-point resolution
// (and only entry points, not the recursive dependency resolves
// lookUpBindings drives), per the interceptor package doc.
func TestDriveEntryPointsRunsInstalledInterceptorChain(t *testing.T) {
	reg := moduleindex.NewRegistry()
	fooKey := binding.New(binding.Plain("Foo"))
	barKey := binding.New(binding.Plain("Bar"))
	fooBinding := binding.Binding{
		Key:          fooKey,
		Kind:         binding.Provision,
		Type:         binding.TypeProvision,
		Dependencies: []binding.DependencyRequest{{Key: barKey, Kind: binding.Instance}},
	}
	barBinding := binding.Binding{Key: barKey, Kind: binding.Provision, Type: binding.TypeProvision}
	reg.Add(moduleindex.Module{
		Type: "M",
		Declarations: moduleindex.Declarations{
			Explicit: []binding.ExplicitDeclaration{
				binding.NewExplicitDeclaration("M", fooBinding),
				binding.NewExplicitDeclaration("M", barBinding),
			},
		},
	})

	eps := []component.EntryPoint{{MethodName: "foo", Request: binding.DependencyRequest{Key: fooKey, Kind: binding.Instance}}}
	r := newTestResolver(t, nil, "C", reg, []string{"M"}, eps, false, &stubOracle{})

	timing := interceptor.NewTimingInterceptor()
	chain := interceptor.NewChain()
	assert.NoError(t, chain.Register(interceptor.Config{Name: "timing", Interceptor: timing}))
	r.SetInterceptorChain(chain)

	r.DriveEntryPoints()

	assert.Equal(t, []string{"C/" + fooKey.String()}, timing.Observed(), "only the top-level entry point is intercepted, not its Bar dependency")

	_, ok := r.resolvedContribution.get(barKey.String())
	assert.True(t, ok, "Bar must still resolve as Foo's dependency even though it never went through the chain directly")
}
