package mapper

import (
	"reflect"
)

var (
	stringType       = reflect.TypeOf("")
	valueBuilderType = reflect.TypeOf((*ValueBuilder)(nil)).Elem()
)

func isBuildable(t reflect.Type) bool {
	return t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(valueBuilderType)
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// toDeclared wraps v in as many pointers as declared needs. A value that does not
// fit is returned unchanged.
func toDeclared(v reflect.Value, declared reflect.Type) reflect.Value {
	if !v.IsValid() {
		return v
	}

	for v.Type() != declared && declared.Kind() == reflect.Ptr && deref(declared) == deref(v.Type()) {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}

	return v
}

// asMap accepts the map shapes decoders produce: map[string]any, map[any]any with
// string keys (YAML) and any other map keyed by a string kind.
func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))

		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}

			out[key] = v
		}

		return out, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}

	return out, true
}

// asSlice accepts []any and any other slice or array value.
func asSlice(raw any) ([]any, bool) {
	if s, ok := raw.([]any); ok {
		return s, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}
