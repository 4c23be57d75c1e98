package binding

// Declaration is the umbrella for everything a ModuleIndex extracts
// from a module's source: an explicit @Provides/@Produces/@Binds
// method, a @Multibinds/@IntoSet/@IntoMap declaration, a
// @BindsOptionalOf declaration, or a declared subcomponent factory
// method. The resolver gathers Declarations by key across its own and
// every ancestor's indexed modules before deciding what, if anything,
// to synthesize.
type Declaration interface {
	Key() Key
	ContributingModule() string
}

type baseDecl struct {
	key    Key
	module string
}

func (d baseDecl) Key() Key { return d.key }
func (d baseDecl) ContributingModule() string { return d.module }

// ExplicitDeclaration is a user-written @Provides/@Produces method (or
// a constructor/field the InjectBindingRegistry found): a single,
// concrete binding ready to use as-is.
type ExplicitDeclaration struct {
	baseDecl
	Binding Binding
}

func NewExplicitDeclaration(module string, b Binding) ExplicitDeclaration {
	return ExplicitDeclaration{baseDecl: baseDecl{key: b.Key, module: module}, Binding: b}
}

// MultibindingDeclaration records that some key is a multibinding
// aggregate (Set<T> or Map<K,V>), independent of whether any
// individual @IntoSet/@IntoMap contribution exists yet. Its presence
// alone is enough for an empty Set/Map to resolve instead of staying
// unbound.
type MultibindingDeclaration struct {
	baseDecl
	IsMap bool
}

func NewMultibindingDeclaration(module string, aggregateKey Key, isMap bool) MultibindingDeclaration {
	return MultibindingDeclaration{baseDecl: baseDecl{key: aggregateKey, module: module}, IsMap: isMap}
}

// DelegateDeclaration is an @Binds method: an alias from Key to
// whatever binding resolves for DelegateRequest.Key.
type DelegateDeclaration struct {
	baseDecl
	DelegateRequest DependencyRequest
	// IntoMultibinding is set when this @Binds also carries
	// @IntoSet/@IntoMap, making it a multibinding contribution as well
	// as (potentially) a standalone delegate.
	IntoMultibinding bool
}

func NewDelegateDeclaration(module string, k Key, delegateRequest DependencyRequest) DelegateDeclaration {
	return DelegateDeclaration{baseDecl: baseDecl{key: k, module: module}, DelegateRequest: delegateRequest}
}

// SubcomponentDeclaration records that a module declares a
// subcomponent via @Module(subcomponents = ...); the resolver
// synthesizes a SUBCOMPONENT_CREATOR binding for the creator type the
// first time any key maps to one of these.
type SubcomponentDeclaration struct {
	baseDecl
	SubcomponentType string
	CreatorType      string
}

func NewSubcomponentDeclaration(module, creatorType, subcomponentType string) SubcomponentDeclaration {
	return SubcomponentDeclaration{
		baseDecl:         baseDecl{key: New(Plain(creatorType)), module: module},
		SubcomponentType: subcomponentType,
		CreatorType:      creatorType,
	}
}

// OptionalDeclaration is a @BindsOptionalOf declaration: it makes
// Optional<T> resolvable (as present or absent) for the underlying key
// T, even when nothing else in the graph ever binds T directly.
type OptionalDeclaration struct {
	baseDecl
}

// NewOptionalDeclaration indexes an OptionalDeclaration under the
// *unwrapped* key, i.e. T rather than Optional<T>; see Resolver
// lookUpBindings step 2, which gathers optionalDecls "keyed by the
// unwrapped Optional<T>".
func NewOptionalDeclaration(module string, underlyingKey Key) OptionalDeclaration {
	return OptionalDeclaration{baseDecl: baseDecl{key: underlyingKey, module: module}}
}
