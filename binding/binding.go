package binding

// Kind tags the origin of a Binding. The design's original hierarchy
// (Binding / ContributionBinding / ProvisionBinding / ProductionBinding
// / MembersInjectionBinding) is flattened into this single tagged
// variant: every Binding carries the same struct, and call sites
// branch on Kind instead of on a type switch over a class hierarchy.
type Kind int

const (
	Injection Kind = iota
	Provision
	Production
	Component
	ComponentDependency
	ComponentProvision
	ComponentProduction
	BoundInstance
	SubcomponentCreator
	Delegate
	Optional
	MultiboundSet
	MultiboundMap
	MembersInjectionKind
)

func (k Kind) String() string {
	switch k {
	case Injection:
		return "INJECTION"
	case Provision:
		return "PROVISION"
	case Production:
		return "PRODUCTION"
	case Component:
		return "COMPONENT"
	case ComponentDependency:
		return "COMPONENT_DEPENDENCY"
	case ComponentProvision:
		return "COMPONENT_PROVISION"
	case ComponentProduction:
		return "COMPONENT_PRODUCTION"
	case BoundInstance:
		return "BOUND_INSTANCE"
	case SubcomponentCreator:
		return "SUBCOMPONENT_CREATOR"
	case Delegate:
		return "DELEGATE"
	case Optional:
		return "OPTIONAL"
	case MultiboundSet:
		return "MULTIBOUND_SET"
	case MultiboundMap:
		return "MULTIBOUND_MAP"
	case MembersInjectionKind:
		return "MEMBERS_INJECTION"
	default:
		return "UNKNOWN"
	}
}

// BindingType selects which framework wrapper a binding materializes
// under: the synchronous provision path, or the asynchronous
// production (Producer/ListenableFuture) path.
type BindingType int

const (
	TypeProvision BindingType = iota
	TypeProduction
)

func (t BindingType) String() string {
	if t == TypeProduction {
		return "PRODUCTION"
	}
	return "PROVISION"
}

// Binding is one concrete way to produce a value (or perform a
// members-injection) for a Key.
type Binding struct {
	Key  Key
	Kind Kind
	Type BindingType

	// Scope is the scope annotation name ("" means unscoped), e.g.
	// "Singleton" or "Reusable". Reusable bindings are scope without
	// identity: see IsReusable.
	Scope string

	// ContributingModule names the module instance that declared this
	// binding, when it came from a module (explicit, multibinding
	// contribution, delegate). Empty for synthetic/injection bindings
	// that have no owning module.
	ContributingModule string

	// Dependencies lists this binding's outgoing DependencyRequests.
	Dependencies []DependencyRequest

	// BindingElement is an opaque handle back to whatever the
	// TypeOracle exposed for this binding's declaration (a method, a
	// constructor, a field); never interpreted here, only carried
	// through for diagnostics and code generation.
	BindingElement any

	// Nullable marks a provision binding whose element permits a nil
	// result without triggering a generated null-check.
	Nullable bool

	// IsSynthetic marks a binding the resolver invented (multibinding,
	// optional, subcomponent-creator, delegate, @Inject, members
	// injection) as opposed to one taken verbatim from an explicit
	// declaration.
	IsSynthetic bool

	// UnresolvedGeneric marks a delegate binding whose right-hand side
	// could not be resolved to any concrete binding; it exists purely
	// so a validator downstream can attribute a "missing binding"
	// diagnostic to the @Binds declaration.
	UnresolvedGeneric bool

	// DeferredScope is set when an @Inject binding's scope matched no
	// component in the lineage while resolving below the root; the
	// binding is kept in this graph, marked, so a validator can
	// attribute the mismatch. With ahead-of-time subcomponents enabled
	// such a binding is withheld instead and never carries this mark.
	DeferredScope bool
}

// IsReusable reports whether this binding is @Reusable-scoped: scoped
// for caching purposes but not tied to any one component's identity.
func (b Binding) IsReusable() bool { return b.Scope == "Reusable" }

// IsScoped reports whether b carries any scope annotation at all,
// @Reusable included.
func (b Binding) IsScoped() bool { return b.Scope != "" }
