// Package canon holds the canonical value registry: equivalence classes of
// textual spellings for categorical fields. The registry is built once at
// startup and read concurrently without locking afterwards.
package canon

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Class is one canonical token with every spelling that denotes it.
// A Class with an empty Canonical is a literal fallback for an unknown value.
type Class struct {
	Dimension string
	Canonical string
	Spellings []string
}

// IsLiteral reports whether the class is a fallback for an unregistered value.
func (c Class) IsLiteral() bool { return c.Canonical == "" }

// Literal builds a fallback class matching only the typed value.
func Literal(dimension, value string) Class {
	return Class{Dimension: dimension, Spellings: []string{strings.TrimSpace(value)}}
}

// Fold normalizes a spelling for comparison: trimmed, inner whitespace
// collapsed, upper-cased.
func Fold(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// Registry maps folded spellings to classes, per dimension.
type Registry struct {
	classes map[string][]Class
	index   map[string]map[string]int
}

// NewRegistry validates classes and indexes their spellings.
// The canonical token is always one of its own spellings. A spelling may
// belong to only one class within a dimension.
func NewRegistry(classes ...Class) (*Registry, error) {
	r := &Registry{
		classes: make(map[string][]Class),
		index:   make(map[string]map[string]int),
	}
	for _, c := range classes {
		if c.Dimension == "" || c.Canonical == "" {
			return nil, fmt.Errorf("class requires dimension and canonical token")
		}
		spellings := slices.Clone(c.Spellings)
		if !slices.ContainsFunc(spellings, func(s string) bool { return Fold(s) == Fold(c.Canonical) }) {
			spellings = append([]string{c.Canonical}, spellings...)
		}
		c.Spellings = spellings

		idx, ok := r.index[c.Dimension]
		if !ok {
			idx = make(map[string]int)
			r.index[c.Dimension] = idx
		}
		pos := len(r.classes[c.Dimension])
		for _, s := range spellings {
			key := Fold(s)
			if key == "" {
				return nil, fmt.Errorf("%s/%s: empty spelling", c.Dimension, c.Canonical)
			}
			if prev, dup := idx[key]; dup && prev != pos {
				return nil, fmt.Errorf("%s: spelling %q registered under %s and %s",
					c.Dimension, s, r.classes[c.Dimension][prev].Canonical, c.Canonical)
			}
			idx[key] = pos
		}
		r.classes[c.Dimension] = append(r.classes[c.Dimension], c)
	}
	return r, nil
}

// MustRegistry calls NewRegistry and panics on error.
func MustRegistry(classes ...Class) *Registry {
	r, err := NewRegistry(classes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds the class a value belongs to (case/whitespace-insensitive).
func (r *Registry) Lookup(dimension, value string) (Class, bool) {
	idx, ok := r.index[dimension]
	if !ok {
		return Class{}, false
	}
	pos, ok := idx[Fold(value)]
	if !ok {
		return Class{}, false
	}
	return r.classes[dimension][pos], true
}

// Resolve returns the registered class for value, or a literal fallback.
func (r *Registry) Resolve(dimension, value string) Class {
	if c, ok := r.Lookup(dimension, value); ok {
		return c
	}
	return Literal(dimension, value)
}

// Dimensions returns registered dimension names, sorted.
func (r *Registry) Dimensions() []string {
	dims := make([]string, 0, len(r.classes))
	for d := range r.classes {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}

// Classes returns the classes of a dimension in registration order.
func (r *Registry) Classes(dimension string) []Class {
	return slices.Clone(r.classes[dimension])
}

// Canonicals returns the canonical tokens of a dimension.
func (r *Registry) Canonicals(dimension string) []string {
	cs := r.classes[dimension]
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Canonical
	}
	return out
}
