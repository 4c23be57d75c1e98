package oracle

import (
	"reflect"
	"sync"

	"bindgraph/key"
)

// ReflectOracle is a concrete TypeOracle backed by Go's reflect
// package and a small struct-tag convention: a registry keyed by type
// name, with struct tags read through reflect.StructField standing in
// for annotations. A field is injectable when it carries an
// `inject:"<qualifier>"` tag; the qualifier may be empty.
//
// ReflectOracle exists so the bundled CLI and HTTP server can resolve
// a graph from real Go types without a source-level annotation
// processor, which Go does not have. It is not the only possible
// TypeOracle; it is the one this module ships.
type ReflectOracle struct {
	mu          sync.RWMutex
	types       map[string]reflect.Type
	typeNames   map[reflect.Type]string
	constructor map[string]reflect.Type // type name -> @Inject constructor func type
}

// NewReflectOracle returns an oracle with an empty type registry.
func NewReflectOracle() *ReflectOracle {
	return &ReflectOracle{
		types:       make(map[string]reflect.Type),
		typeNames:   make(map[reflect.Type]string),
		constructor: make(map[string]reflect.Type),
	}
}

// Register makes t (a struct or pointer-to-struct) available under
// name for LookupType/AllMembers/IsSubtype. Call this once per
// component/module/provider type before building a ComponentDescriptor
// from it.
func (o *ReflectOracle) Register(name string, value any) {
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.types[name] = t
	o.typeNames[t] = name
}

// RegisterConstructor marks ctor (a func(...) T or func(...) (T, error))
// as the @Inject constructor for the type it returns, the Go stand-in
// for annotating a constructor. Every parameter type must already be
// Register'd (or itself have a registered constructor/be a module
// provider) for InjectBindingRegistry to resolve it later.
func (o *ReflectOracle) RegisterConstructor(name string, ctor any) {
	t := reflect.TypeOf(ctor)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.constructor[name] = t
}

func (o *ReflectOracle) LookupType(qualifiedName string) (key.Type, bool) {
	o.mu.RLock()
	_, ok := o.types[qualifiedName]
	o.mu.RUnlock()
	if !ok {
		return key.Type{}, false
	}
	return key.Plain(qualifiedName), true
}

const injectTag = "inject"

func (o *ReflectOracle) AllMembers(t key.Type) []Member {
	o.mu.RLock()
	rt, ok := o.types[t.Name]
	o.mu.RUnlock()
	if !ok || rt.Kind() != reflect.Struct {
		return nil
	}

	var members []Member
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		qualifier, tagged := f.Tag.Lookup(injectTag)
		if !tagged {
			continue
		}
		members = append(members, Member{
			Name:       f.Name,
			Qualifier:  qualifier,
			Type:       key.Plain(fieldTypeName(f.Type)),
			IsExported: f.IsExported(),
		})
	}
	return members
}

func fieldTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// ConstructorParams returns the parameter Members of t's registered
// @Inject constructor. Parameter types not themselves registered fall
// back to their reflect.Type.Name() so the resolver can still form a
// DependencyRequest key, even though LookupType for it will fail.
func (o *ReflectOracle) ConstructorParams(t key.Type) ([]Member, bool) {
	o.mu.RLock()
	ctor, ok := o.constructor[t.Name]
	typeNames := o.typeNames
	o.mu.RUnlock()
	if !ok {
		return nil, false
	}

	params := make([]Member, 0, ctor.NumIn())
	for i := 0; i < ctor.NumIn(); i++ {
		pt := ctor.In(i)
		for pt.Kind() == reflect.Ptr {
			pt = pt.Elem()
		}
		name, known := typeNames[pt]
		if !known {
			name = pt.Name()
		}
		params = append(params, Member{Name: name, Type: key.Plain(name)})
	}
	return params, true
}

func (o *ReflectOracle) IsSubtype(a, b key.Type) bool {
	o.mu.RLock()
	ra, aok := o.types[a.Name]
	rb, bok := o.types[b.Name]
	o.mu.RUnlock()
	if !aok || !bok {
		return a.Equal(b)
	}
	if ra == rb {
		return true
	}
	if rb.Kind() == reflect.Interface {
		return ra.Implements(rb) || reflect.PointerTo(ra).Implements(rb)
	}
	return false
}

func (o *ReflectOracle) HasAnnotation(element string, annotationName string) bool {
	_, ok := o.AnnotationValue(element, annotationName, "")
	return ok
}

// AnnotationValue looks up a struct tag named annotationName on the
// field named element's owner; ReflectOracle only supports
// field-level tags, so element is expected to be a "Type.Field" pair.
func (o *ReflectOracle) AnnotationValue(element string, annotationName string, valueName string) (string, bool) {
	typeName, fieldName := splitElement(element)
	o.mu.RLock()
	rt, ok := o.types[typeName]
	o.mu.RUnlock()
	if !ok {
		return "", false
	}
	f, ok := rt.FieldByName(fieldName)
	if !ok {
		return "", false
	}
	v, ok := f.Tag.Lookup(annotationName)
	return v, ok
}

func splitElement(element string) (typeName, fieldName string) {
	for i := len(element) - 1; i >= 0; i-- {
		if element[i] == '.' {
			return element[:i], element[i+1:]
		}
	}
	return element, ""
}

func (o *ReflectOracle) IsType(t key.Type, qualifiedName string) bool {
	return t.Name == qualifiedName
}
