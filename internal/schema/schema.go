// Package schema builds the field table of a model type once: external keys,
// declared type descriptors, date layouts and unsafe accessors for every property,
// with embedded structs flattened into their parent.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unsafe"

	"github.com/viant/xunsafe"

	"model-mapper/node"
)

var ErrNotStruct = errors.New("model type must be a struct")

const (
	tagJSON   = "json"
	tagModel  = "model"
	tagFormat = "format"
)

// Model is the field table of one struct type.
type Model struct {
	Type   reflect.Type
	Name   string
	Fields []*Field
	byName map[string]*Field
}

// Field describes one property.
type Field struct {
	// Name is the Go field name, used as the property name by every hook.
	Name string
	// Key is the external key from the json tag, or Name when untagged.
	Key string
	// Tagged is set when the json tag names the key explicitly.
	Tagged     bool
	Ignored    bool
	Descriptor node.Descriptor
	// Layout is the date layout from the format tag.
	Layout string
	xField *xunsafe.Field
}

var cache sync.Map

// Of returns the cached field table of t. Pointer types are dereferenced.
func Of(t reflect.Type) (*Model, error) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	if m, ok := cache.Load(t); ok {
		return m.(*Model), nil
	}

	m, err := build(t)
	if err != nil {
		return nil, err
	}

	actual, _ := cache.LoadOrStore(t, m)

	return actual.(*Model), nil
}

func build(t reflect.Type) (*Model, error) {
	m := &Model{Type: t, Name: node.TypeName(t), byName: map[string]*Field{}}

	candidates, err := collect(t, 0, 0)
	if err != nil {
		return nil, err
	}

	depth := map[string]int{}
	for _, c := range candidates {
		if d, ok := depth[c.field.Name]; !ok || c.depth < d {
			depth[c.field.Name] = c.depth
		}
	}

	for _, c := range candidates {
		if depth[c.field.Name] != c.depth {
			continue
		}

		if _, dup := m.byName[c.field.Name]; dup {
			continue
		}

		m.Fields = append(m.Fields, c.field)
		m.byName[c.field.Name] = c.field
	}

	return m, nil
}

type candidate struct {
	field *Field
	depth int
}

func collect(t reflect.Type, offset uintptr, depth int) ([]candidate, error) {
	var out []candidate

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		sf.Offset += offset

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get(tagJSON) == "" {
			nested, err := collect(sf.Type, sf.Offset, depth+1)
			if err != nil {
				return nil, err
			}

			out = append(out, nested...)

			continue
		}

		if !sf.IsExported() {
			continue
		}

		f, err := newField(sf)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", node.TypeName(t), sf.Name, err)
		}

		out = append(out, candidate{field: f, depth: depth})
	}

	return out, nil
}

func newField(sf reflect.StructField) (*Field, error) {
	f := &Field{
		Name:       sf.Name,
		Key:        sf.Name,
		Descriptor: node.Describe(sf.Type),
		Layout:     sf.Tag.Get(tagFormat),
		xField:     xunsafe.NewField(sf),
	}

	if tag, ok := sf.Tag.Lookup(tagJSON); ok {
		name, _, _ := strings.Cut(tag, ",")

		switch name {
		case "-":
			f.Ignored = true
		case "":
		default:
			f.Key = name
			f.Tagged = true
		}
	}

	if tag, ok := sf.Tag.Lookup(tagModel); ok {
		o, valid := node.ParseOptionality(tag)
		if !valid {
			return nil, fmt.Errorf("invalid %s tag %q", tagModel, tag)
		}

		f.Descriptor = f.Descriptor.WithOptionality(o)
	}

	return f, nil
}

// Field returns the property with the given Go name.
func (m *Model) Field(name string) (*Field, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// Names returns the property names in declaration order.
func (m *Model) Names() []string {
	out := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		out = append(out, f.Name)
	}

	return out
}

// Addr returns the settable field value inside the struct at ptr.
func (f *Field) Addr(ptr unsafe.Pointer) reflect.Value {
	return reflect.NewAt(f.Descriptor.Type, f.xField.Pointer(ptr)).Elem()
}

// Value returns the field value inside the struct at ptr.
func (f *Field) Value(ptr unsafe.Pointer) any {
	return f.xField.Value(ptr)
}

// IsZero reports whether the field inside the struct at ptr holds its zero value.
func (f *Field) IsZero(ptr unsafe.Pointer) bool {
	return f.Addr(ptr).IsZero()
}

// Set stores v, which must be assignable to the field type.
func (f *Field) Set(ptr unsafe.Pointer, v reflect.Value) {
	f.Addr(ptr).Set(v)
}
