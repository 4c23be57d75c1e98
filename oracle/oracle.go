// Package oracle defines TypeOracle, the resolver's sole window onto
// the host language's type system: declared types, their members,
// subtyping, and annotations. Source parsing and annotation-processor
// plumbing live outside this module entirely; oracle only
// states the contract the resolver needs and ships one concrete,
// struct-tag-driven adapter (ReflectOracle) good enough to resolve
// graphs built from plain Go structs, for tests and for the bundled
// CLI/HTTP-server demos.
package oracle

import "bindgraph/key"

// Member describes one injectable field or method the oracle found on
// a type: a constructor parameter, an @Inject field, or a provision
// method.
type Member struct {
	Name       string
	Qualifier  string
	Type       key.Type
	IsMethod   bool
	IsExported bool
}

// TypeOracle is the abstract, external collaborator the resolver
// queries for everything it cannot know on its own. None of its
// methods return errors for "not found"; absence is encoded as a
// zero value / false, matching the rest of this module's error-free
// lookup style; only NotYetAvailable (see errorsx) is a real failure,
// and that is signaled by the caller wrapping LookupType's false result,
// not by TypeOracle itself.
type TypeOracle interface {
	// LookupType resolves a declared type by its canonical name.
	LookupType(qualifiedName string) (key.Type, bool)

	// AllMembers enumerates every field/method the resolver might need
	// to inject into or call on t, including inherited members.
	AllMembers(t key.Type) []Member

	// ConstructorParams returns the parameter Members of t's single
	// @Inject-annotated constructor, if t declares one.
	ConstructorParams(t key.Type) ([]Member, bool)

	// IsSubtype reports whether a is assignable where b is expected.
	IsSubtype(a, b key.Type) bool

	// HasAnnotation reports whether the given element (a type name or
	// Member.Name, as returned by this same oracle) carries the named
	// annotation/struct tag.
	HasAnnotation(element string, annotationName string) bool

	// AnnotationValue returns the named value carried by an annotation
	// on element, if any.
	AnnotationValue(element string, annotationName string, valueName string) (string, bool)

	// IsType reports whether t is exactly (or is an alias of) the type
	// named qualifiedName; used to recognize framework wrapper types
	// (Optional, Set, Map, Lazy, Provider, Producer, ...) during
	// descriptor assembly, before a key.Type has been built for them.
	IsType(t key.Type, qualifiedName string) bool
}
