package node

import (
	"reflect"
	"strconv"

	"model-mapper/internal/common"
)

func typeStr(t reflect.Type) string {
	// short package-qualified named types, or builtin string for basics
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + typeStr(t.Elem())
	case reflect.Slice:
		return "[]" + typeStr(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeStr(t.Elem())
	case reflect.Map:
		return "map[" + typeStr(t.Key()) + "]" + typeStr(t.Elem())
	default:
		if t.PkgPath() == "" || t.Name() == "" {
			return t.String()
		}

		return common.PkgAlias(t.PkgPath()) + "." + t.Name()
	}
}

// TypeName is the short package-qualified name used in diagnostics, e.g. "catalog.Album".
func TypeName(t reflect.Type) string {
	if t == nil {
		return common.UnknownStr
	}

	return typeStr(t)
}
