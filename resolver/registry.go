package resolver

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"model-mapper/node"
)

var (
	ErrNotAssignable = errors.New("concrete type does not satisfy the declared type")
	ErrTagConflict   = errors.New("tag is already registered for another type")
	ErrNotInterface  = errors.New("dynamic base type must be an interface")
	ErrEmptyName     = errors.New("name must not be empty")
)

// Registry is the default TypeResolver. It holds three tables: declared type to
// concrete type, tag to concrete type, and dynamic interface to discriminator key.
// Reads are safe during concurrent decoding; writes are expected at startup.
type Registry struct {
	mux     sync.RWMutex
	types   map[reflect.Type]reflect.Type
	tags    map[string]reflect.Type
	dynamic map[reflect.Type]string
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		types:   make(map[reflect.Type]reflect.Type),
		tags:    make(map[string]reflect.Type),
		dynamic: make(map[reflect.Type]string),
	}
}

// Register maps the declared type to a concrete struct type. For an interface
// declared type the concrete type, or a pointer to it, must implement it.
func (r *Registry) Register(declared, concrete reflect.Type) error {
	if !satisfies(concrete, declared) {
		return fmt.Errorf("%w: %s as %s", ErrNotAssignable, node.TypeName(concrete), node.TypeName(declared))
	}

	r.mux.Lock()
	defer r.mux.Unlock()

	r.types[declared] = concrete

	return nil
}

// RegisterModel registers a struct type as resolvable to itself.
func (r *Registry) RegisterModel(t reflect.Type) error {
	return r.Register(t, t)
}

// RegisterDynamic declares base as a dynamic type whose concrete type is chosen by
// the tag found under property in the input.
func (r *Registry) RegisterDynamic(base reflect.Type, property string) error {
	if base.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, node.TypeName(base))
	}

	if property == "" {
		return fmt.Errorf("%w: type name property of %s", ErrEmptyName, node.TypeName(base))
	}

	r.mux.Lock()
	defer r.mux.Unlock()

	r.dynamic[base] = property
	r.types[base] = base

	return nil
}

// RegisterTag binds a tag to a concrete type. Re-registering the same pair is a no-op.
func (r *Registry) RegisterTag(tag string, concrete reflect.Type) error {
	if tag == "" {
		return fmt.Errorf("%w: tag for %s", ErrEmptyName, node.TypeName(concrete))
	}

	r.mux.Lock()
	defer r.mux.Unlock()

	if prev, ok := r.tags[tag]; ok && prev != concrete {
		return fmt.Errorf("%w: %q is %s, not %s", ErrTagConflict, tag, node.TypeName(prev), node.TypeName(concrete))
	}

	r.tags[tag] = concrete
	r.types[concrete] = concrete

	return nil
}

// TagOf returns the tag registered for a concrete type.
func (r *Registry) TagOf(concrete reflect.Type) (string, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	for tag, t := range r.tags {
		if t == concrete {
			return tag, true
		}
	}

	return "", false
}

func (r *Registry) lookup(base reflect.Type) (reflect.Type, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	t, ok := r.types[base]

	return t, ok
}

func (r *Registry) Resolve(d node.Descriptor) (reflect.Type, bool) {
	if d.Shape != node.ShapeScalar {
		return nil, false
	}

	return r.lookup(d.Base)
}

func (r *Registry) ResolveArray(d node.Descriptor) (reflect.Type, bool) {
	if d.Shape != node.ShapeArray {
		return nil, false
	}

	return r.lookup(d.Base)
}

func (r *Registry) ResolveDictionary(d node.Descriptor) (reflect.Type, bool) {
	if d.Shape != node.ShapeMap {
		return nil, false
	}

	return r.lookup(d.Base)
}

func (r *Registry) ResolveByTag(tag string) (reflect.Type, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	t, ok := r.tags[tag]

	return t, ok
}

func (r *Registry) TypeNameProperty(base reflect.Type) (string, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	name, ok := r.dynamic[base]

	return name, ok
}

// Types returns the registered declared types sorted by name.
func (r *Registry) Types() []reflect.Type {
	r.mux.RLock()
	defer r.mux.RUnlock()

	out := make([]reflect.Type, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}

	slices.SortFunc(out, func(a, b reflect.Type) int {
		return strings.Compare(node.TypeName(a), node.TypeName(b))
	})

	return out
}

// Tags returns the registered tags sorted.
func (r *Registry) Tags() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()

	out := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		out = append(out, tag)
	}

	slices.Sort(out)

	return out
}

// Reset drops every registration. Meant for test teardown.
func (r *Registry) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()

	clear(r.types)
	clear(r.tags)
	clear(r.dynamic)
}

// Implementer returns the form of concrete (value or pointer) that implements iface,
// or false when neither does.
func Implementer(concrete, iface reflect.Type) (reflect.Type, bool) {
	switch {
	case concrete.Implements(iface):
		return concrete, true
	case reflect.PointerTo(concrete).Implements(iface):
		return reflect.PointerTo(concrete), true
	default:
		return nil, false
	}
}

func satisfies(concrete, declared reflect.Type) bool {
	if concrete == nil || declared == nil {
		return false
	}

	if declared.Kind() == reflect.Interface {
		_, ok := Implementer(concrete, declared)
		return ok
	}

	return concrete == declared || concrete.AssignableTo(declared)
}
