package main

import (
	"bindgraph/binding"
	"bindgraph/moduleindex"
)

// moduleDoc is the JSON spelling of one module. The declaration types
// in package binding are deliberately not JSON-decodable (their keys
// are set only through constructors, which own canonicalization), so
// the CLI decodes this shape and converts.
type moduleDoc struct {
	Type          string            `json:"type" validate:"required"`
	Includes      []string          `json:"includes,omitempty"`
	Provides      []binding.Binding `json:"provides,omitempty"`
	Binds         []bindsDoc        `json:"binds,omitempty"`
	Multibindings []multibindsDoc   `json:"multibindings,omitempty"`
	Subcomponents []subcomponentDoc `json:"subcomponents,omitempty"`
	Optionals     []binding.Key     `json:"optionals,omitempty"`
}

// bindsDoc is one @Binds-style alias: Key resolves to whatever To does.
type bindsDoc struct {
	Key binding.Key               `json:"key"`
	To  binding.DependencyRequest `json:"to"`
}

// multibindsDoc declares Key as a multibinding aggregate, even if no
// contribution to it exists yet.
type multibindsDoc struct {
	Key   binding.Key `json:"key"`
	IsMap bool        `json:"isMap,omitempty"`
}

// subcomponentDoc declares a subcomponent reachable through its
// creator type, as @Module(subcomponents = ...) would.
type subcomponentDoc struct {
	CreatorType      string `json:"creatorType"`
	SubcomponentType string `json:"subcomponentType"`
}

// toModule converts the decoded document into a registrable module. A
// provided binding with no contributing module recorded is attributed
// to this module.
func (d moduleDoc) toModule() moduleindex.Module {
	var decls moduleindex.Declarations
	for _, b := range d.Provides {
		if b.ContributingModule == "" {
			b.ContributingModule = d.Type
		}
		decls.Explicit = append(decls.Explicit, binding.NewExplicitDeclaration(d.Type, b))
	}
	for _, bd := range d.Binds {
		decls.Delegates = append(decls.Delegates, binding.NewDelegateDeclaration(d.Type, bd.Key, bd.To))
	}
	for _, m := range d.Multibindings {
		decls.Multibindings = append(decls.Multibindings, binding.NewMultibindingDeclaration(d.Type, m.Key, m.IsMap))
	}
	for _, sc := range d.Subcomponents {
		decls.Subcomponents = append(decls.Subcomponents, binding.NewSubcomponentDeclaration(d.Type, sc.CreatorType, sc.SubcomponentType))
	}
	for _, k := range d.Optionals {
		decls.Optionals = append(decls.Optionals, binding.NewOptionalDeclaration(d.Type, k))
	}
	return moduleindex.Module{Type: d.Type, Includes: d.Includes, Declarations: decls}
}
