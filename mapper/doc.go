// Package mapper populates Go structs from decoded JSON-like documents
// (map[string]any trees) and serializes them back.
//
// Every property is matched against a fixed pipeline of rules: the primitive kinds
// first (string, integer, float, double, bool, date, decimal, URL, color, duration,
// UUID; each as a scalar and then as an array), then exact string maps, then nested
// models resolved through a resolver.TypeResolver (scalar, array and map, including
// tag-dispatched dynamic types), and finally types implementing node.ValueBuilder.
//
// Models customize decoding by implementing the optional hook interfaces in hooks.go
// on their pointer receiver. Struct tags describe the rest:
//
//	type Album struct {
//		ID       string    `json:"id"`
//		Released time.Time `json:"released" format:"2006-01-02"`
//		Rating   *float64  `json:"rating"`                 // optional
//		Tracks   int       `json:"tracks" model:"default"` // fails only when absent and zero
//		Songs    []Song    `json:"songs"`
//	}
package mapper
