// Package normalization maps user-supplied names onto enumerated values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps case- and whitespace-insensitive names, including
// aliases, onto values of T.
type Normalizer[T comparable] struct {
	kind      string
	values    map[string]T
	canonical []string // names reported in errors, sorted
}

// NewNormalizer creates a normalizer for kind (used in error messages).
// values holds the canonical names; aliases maps extra spellings.
func NewNormalizer[T comparable](kind string, values map[string]T, aliases map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{kind: kind, values: make(map[string]T, len(values)+len(aliases))}
	for k, v := range values {
		key := Key(k)
		n.values[key] = v
		n.canonical = append(n.canonical, key)
	}
	for k, v := range aliases {
		n.values[Key(k)] = v
	}
	sort.Strings(n.canonical)
	return n
}

// Parse returns the value named by raw.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if v, ok := n.values[Key(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q (expected %s)", n.kind, raw, strings.Join(n.canonical, ", "))
}

// Names returns the canonical names in sorted order.
func (n *Normalizer[T]) Names() []string {
	out := make([]string, len(n.canonical))
	copy(out, n.canonical)
	return out
}

// Key is the lookup form of a name.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
