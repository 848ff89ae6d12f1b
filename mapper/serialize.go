package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"model-mapper/internal/common"
	"model-mapper/node"
	"model-mapper/primitive"
	"model-mapper/resolver"
)

var rawRepresentableType = reflect.TypeOf((*RawRepresentable)(nil)).Elem()

// Serialize renders model (a struct or a pointer to one) as a JSON-safe map.
// Properties holding no value (nil pointer, interface, slice or map) are omitted.
func (m *Mapper) Serialize(model any) (map[string]any, error) {
	return m.serialize(model, false)
}

// SerializeStrict is Serialize that fails with ErrSerialization on any property
// holding no value.
func (m *Mapper) SerializeStrict(model any) (map[string]any, error) {
	return m.serialize(model, true)
}

func (m *Mapper) serialize(model any, strict bool) (map[string]any, error) {
	rv := reflect.ValueOf(model)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDestination, model)
	}

	w := &writer{m: m, strict: strict}

	return w.object(addressable(rv), "")
}

type writer struct {
	m      *Mapper
	strict bool
}

func (w *writer) object(ptr reflect.Value, path string) (map[string]any, error) {
	p, err := parserFor(ptr.Type().Elem())
	if err != nil {
		return nil, err
	}

	overlay := w.m.overlay(p)
	res := w.m.resolverFor(p)
	out := make(map[string]any, len(p.model.Fields))

	for _, f := range p.model.Fields {
		if p.isIgnored(f, overlay) {
			continue
		}

		key := w.m.key(p, f, overlay)
		at := join(path, key)
		v := f.Addr(ptr.UnsafePointer())

		if isNil(v) {
			if w.strict {
				return nil, &Error{Kind: ErrSerialization, Model: p.model.Name, Property: key, Field: f.Name, Path: at, Missing: true}
			}

			continue
		}

		var layout string
		if f.Descriptor.Kind == primitive.KindDate {
			layout, _ = common.First(w.m.layouts(p, f, overlay))
		}

		value, err := w.value(v, layout, res, at)
		if err != nil {
			return nil, err
		}

		out[key] = value
	}

	return out, nil
}

// value renders one value by its runtime type.
func (w *writer) value(v reflect.Value, layout string, res resolver.TypeResolver, path string) (any, error) {
	if isNil(v) {
		return nil, nil
	}

	if v.Kind() == reflect.Interface {
		return w.dynamic(v, layout, res, path)
	}

	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	t := v.Type()

	if raw, ok := asRawRepresentable(v); ok {
		return raw.RawValue(), nil
	}

	if kind := primitive.FromReflectType(t); kind != 0 {
		return primitive.Format(kind, v, layout)
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())

		for i := range out {
			item, err := w.value(v.Index(i), layout, res, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}

			out[i] = item
		}

		return out, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			break
		}

		out := make(map[string]any, v.Len())

		iter := v.MapRange()
		for iter.Next() {
			k := iter.Key().String()

			item, err := w.value(iter.Value(), layout, res, path+"."+k)
			if err != nil {
				return nil, err
			}

			out[k] = item
		}

		return out, nil

	case reflect.Struct:
		if !isBuildable(t) {
			return w.object(addressable(v), path)
		}
	}

	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), nil
	}

	if v.CanAddr() {
		if s, ok := v.Addr().Interface().(fmt.Stringer); ok {
			return s.String(), nil
		}
	}

	return fmt.Sprint(v.Interface()), nil
}

// dynamic renders an interface value and adds the type name of dynamic bases when
// the concrete model does not carry it itself.
func (w *writer) dynamic(v reflect.Value, layout string, res resolver.TypeResolver, path string) (any, error) {
	out, err := w.value(v.Elem(), layout, res, path)
	if err != nil {
		return nil, err
	}

	obj, ok := out.(map[string]any)
	if !ok {
		return out, nil
	}

	name, dynamic := res.TypeNameProperty(v.Type())
	if !dynamic {
		return out, nil
	}

	if _, has := obj[name]; has {
		return out, nil
	}

	if tag, ok := w.m.tagOf(deref(v.Elem().Type())); ok {
		obj[name] = tag
	}

	return obj, nil
}

func (m *Mapper) tagOf(t reflect.Type) (string, bool) {
	if m.opts.Registry == nil {
		return "", false
	}

	return m.opts.Registry.TagOf(t)
}

func asRawRepresentable(v reflect.Value) (RawRepresentable, bool) {
	if v.Type().Implements(rawRepresentableType) {
		return v.Interface().(RawRepresentable), true
	}

	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(rawRepresentableType) {
		return v.Addr().Interface().(RawRepresentable), true
	}

	return nil, false
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// addressable returns a pointer to v, copying v when it is not addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)

	return ptr
}

// Marshal serializes model to JSON text.
func (m *Mapper) Marshal(model any) ([]byte, error) {
	out, err := m.Serialize(model)
	if err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

// Unmarshal decodes JSON text into dest: an object into a struct pointer, an array
// into a slice pointer. Numbers are kept as json.Number so integers never pass
// through float64.
func (m *Mapper) Unmarshal(ctx context.Context, data []byte, dest any) error {
	doc, err := DecodeJSON(data)
	if err != nil {
		return err
	}

	switch v := doc.(type) {
	case map[string]any:
		return m.Decode(ctx, v, dest)
	case []any:
		return m.DecodeSlice(ctx, v, dest)
	default:
		return &Error{Kind: ErrSourceValue, Model: fmt.Sprintf("%T", dest), Value: doc, Err: fmt.Errorf("expected object or array")}
	}
}

// DecodeJSON parses JSON text into the generic document form.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceValue, err)
	}

	return doc, nil
}

// Property describes one decodable property of a model.
type Property struct {
	Name       string
	Key        string
	Descriptor node.Descriptor
}

// Properties lists the decodable properties of the model type t as this mapper
// sees them: hooks, overlays and key formatting applied.
func (m *Mapper) Properties(t reflect.Type) ([]Property, error) {
	p, err := parserFor(deref(t))
	if err != nil {
		return nil, err
	}

	overlay := m.overlay(p)

	var out []Property

	for _, f := range p.model.Fields {
		if p.isIgnored(f, overlay) {
			continue
		}

		out = append(out, Property{Name: f.Name, Key: m.key(p, f, overlay), Descriptor: p.descriptor(f, overlay)})
	}

	return out, nil
}
