package moduleindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bindgraph/binding"
)

func TestBuildDeduplicatesDiamondIncludes(t *testing.T) {
	r := NewRegistry()

	leafKey := binding.New(binding.Plain("Foo"))
	leafBinding := binding.Binding{Key: leafKey, Kind: binding.Provision, Type: binding.TypeProvision}

	r.Add(Module{
		Type:     "LeafModule",
		Includes: nil,
		Declarations: Declarations{
			Explicit: []binding.ExplicitDeclaration{binding.NewExplicitDeclaration("LeafModule", leafBinding)},
		},
	})
	r.Add(Module{Type: "MiddleA", Includes: []string{"LeafModule"}})
	r.Add(Module{Type: "MiddleB", Includes: []string{"LeafModule"}})
	r.Add(Module{Type: "RootModule", Includes: []string{"MiddleA", "MiddleB"}})

	idx := Build(r, []string{"RootModule"})

	assert.ElementsMatch(t, []string{"RootModule", "MiddleA", "LeafModule", "MiddleB"}, idx.OwnedModules)
	assert.Len(t, idx.Explicit(leafKey), 1, "LeafModule reached via two include paths must contribute once")
}

func TestBuildGroupsDeclarationsByKey(t *testing.T) {
	r := NewRegistry()

	fooKey := binding.New(binding.Plain("Foo"))
	setKey := binding.New(binding.Wrap(binding.WrapperSet, binding.Plain("Foo")))

	r.Add(Module{
		Type: "AppModule",
		Declarations: Declarations{
			Multibindings: []binding.MultibindingDeclaration{
				binding.NewMultibindingDeclaration("AppModule", setKey, false),
			},
			Delegates: []binding.DelegateDeclaration{
				binding.NewDelegateDeclaration("AppModule", fooKey, binding.DependencyRequest{Key: binding.New(binding.Plain("FooImpl"))}),
			},
		},
	})

	idx := Build(r, []string{"AppModule"})

	assert.Len(t, idx.Multibindings(setKey), 1)
	assert.Len(t, idx.Delegates(fooKey), 1)
	assert.Empty(t, idx.Explicit(fooKey))
}

func TestBuildUnknownModuleIsIgnored(t *testing.T) {
	r := NewRegistry()
	idx := Build(r, []string{"NeverRegistered"})
	assert.Empty(t, idx.OwnedModules)
}
