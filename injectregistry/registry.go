// Package injectregistry is
// the resolver's single point of contact for bindings that come from
// @Inject rather than from a module; constructor injection, field/
// method members injection, and the MembersInjector<T> wrapper binding
// those two combine into. Every lookup is memoized, because the
// resolver may ask the same key for the same thing from more than one
// component while walking a lineage.
package injectregistry

import (
	"sync"

	"bindgraph/binding"
	"bindgraph/oracle"
)

// Registry caches synthesized Bindings, one cache per result kind
// because a key can legitimately have both a provision binding and a
// members-injection binding.
type Registry struct {
	oracle oracle.TypeOracle
	bf     binding.Factory

	mu                    sync.Mutex
	provisionCache        map[string]*binding.Binding
	membersInjectionCache map[string]*binding.Binding
	injectorCache         map[string]*binding.Binding
}

// New returns a Registry backed by o for type/member lookups.
func New(o oracle.TypeOracle) *Registry {
	return &Registry{
		oracle:                o,
		bf:                    binding.NewFactory(),
		provisionCache:        make(map[string]*binding.Binding),
		membersInjectionCache: make(map[string]*binding.Binding),
		injectorCache:         make(map[string]*binding.Binding),
	}
}

// GetOrFindProvisionBinding locates k's type's single @Inject-annotated
// constructor (if any) and synthesizes an INJECTION binding whose
// dependencies are the constructor's parameters. Returns (nil, false)
// when the type declares no @Inject constructor; a perfectly normal
// outcome, not an error, since most keys in a graph are module-provided
// rather than @Inject-constructed.
func (r *Registry) GetOrFindProvisionBinding(k binding.Key) (*binding.Binding, bool) {
	cacheKey := k.String()

	r.mu.Lock()
	if b, ok := r.provisionCache[cacheKey]; ok {
		r.mu.Unlock()
		if b == nil {
			return nil, false
		}
		return b, true
	}
	r.mu.Unlock()

	params, ok := r.oracle.ConstructorParams(k.Type)
	if !ok {
		r.storeProvision(cacheKey, nil)
		return nil, false
	}

	deps := make([]binding.DependencyRequest, 0, len(params))
	for _, p := range params {
		deps = append(deps, binding.DependencyRequest{
			Key:  binding.New(p.Type).WithQualifier(p.Qualifier),
			Kind: binding.Instance,
		})
	}

	b := &binding.Binding{
		Key:          k,
		Kind:         binding.Injection,
		Type:         binding.TypeProvision,
		Dependencies: deps,
		IsSynthetic:  true,
	}
	// A scope annotation on the type scopes its constructor binding;
	// the resolver's ownership rules need it to decide which component
	// in the lineage may hold the binding.
	if scope, ok := r.oracle.AnnotationValue(k.Type.Name, scopeAnnotation, ""); ok {
		b.Scope = scope
	}
	r.storeProvision(cacheKey, b)
	return b, true
}

// scopeAnnotation is the annotation/struct-tag name carrying a type's
// scope, e.g. "Singleton" or "Reusable".
const scopeAnnotation = "scope"

func (r *Registry) storeProvision(cacheKey string, b *binding.Binding) {
	r.mu.Lock()
	r.provisionCache[cacheKey] = b
	r.mu.Unlock()
}

// GetOrFindMembersInjectionBinding synthesizes a MEMBERS_INJECTION
// binding for k.Type: one dependency request per @Inject-annotated
// field/setter the oracle reports, in the order AllMembers returns
// them. A type with no injectable members still gets a (trivial,
// dependency-free) binding; members injection on a type that injects
// nothing is legal and simply does no work at runtime.
func (r *Registry) GetOrFindMembersInjectionBinding(k binding.Key) *binding.Binding {
	cacheKey := k.String()

	r.mu.Lock()
	if b, ok := r.membersInjectionCache[cacheKey]; ok {
		r.mu.Unlock()
		return b
	}
	r.mu.Unlock()

	members := r.oracle.AllMembers(k.Type)
	deps := make([]binding.DependencyRequest, 0, len(members))
	for _, m := range members {
		deps = append(deps, binding.DependencyRequest{
			Key:  binding.New(m.Type).WithQualifier(m.Qualifier),
			Kind: binding.Instance,
		})
	}

	b := &binding.Binding{
		Key:          k,
		Kind:         binding.MembersInjectionKind,
		Type:         binding.TypeProvision,
		Dependencies: deps,
		IsSynthetic:  true,
	}

	r.mu.Lock()
	r.membersInjectionCache[cacheKey] = b
	r.mu.Unlock()
	return b
}

// GetOrFindMembersInjectorProvisionBinding wraps k's members-injection
// binding as a provision of MembersInjector<T>, for the case where a
// dependent requests that wrapper type directly rather than asking for
// members injection outright.
func (r *Registry) GetOrFindMembersInjectorProvisionBinding(membersInjectorKey, target binding.Key) *binding.Binding {
	cacheKey := membersInjectorKey.String()

	r.mu.Lock()
	if b, ok := r.injectorCache[cacheKey]; ok {
		r.mu.Unlock()
		return b
	}
	r.mu.Unlock()

	b := r.bf.MembersInjectorBinding(membersInjectorKey, target)

	r.mu.Lock()
	r.injectorCache[cacheKey] = &b
	r.mu.Unlock()
	return &b
}
