// Package schema defines the whitelist of queryable record fields.
//
// A Whitelist is built once at startup and only read afterwards, so it is
// shared across goroutines without locking.
package schema

import (
	"fmt"
	"slices"
	"strings"
)

// ValueType is the declared runtime type of a field's values.
type ValueType string

// Value type constants.
const (
	Number   ValueType = "number"
	String   ValueType = "string"
	Category ValueType = "category"
)

// Operator is a comparison operator a draft may use.
type Operator string

// Operator constants.
const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

// AllOperators lists every operator in a stable order.
var AllOperators = []Operator{OpEq, OpGt, OpGte, OpLt, OpLte, OpIn}

// IsValid reports whether op is a known operator.
func (op Operator) IsValid() bool {
	return slices.Contains(AllOperators, op)
}

// DefaultOperators returns the operators permitted for a value type.
// Ordering comparisons only make sense on numbers.
func DefaultOperators(t ValueType) []Operator {
	switch t {
	case Number:
		return []Operator{OpEq, OpGt, OpGte, OpLt, OpLte, OpIn}
	case String, Category:
		return []Operator{OpEq, OpIn}
	default:
		return nil
	}
}

// Entry describes one queryable field.
type Entry struct {
	Name      string
	Type      ValueType
	Operators []Operator
	// Path is the dotted document path of the field in stored records.
	Path string
}

// Allows reports whether op is permitted on this field.
func (e Entry) Allows(op Operator) bool {
	return slices.Contains(e.Operators, op)
}

// Addresser maps a document path to the record store's native field address.
type Addresser func(path string) string

// DotPath addresses fields by their dotted document path (MongoDB, in-memory).
func DotPath(path string) string { return path }

// AttributeAlias addresses fields by an index attribute alias, dots replaced
// with underscores (Redis query engine: $.a.b AS a_b).
func AttributeAlias(path string) string { return strings.ReplaceAll(path, ".", "_") }

// Whitelist is the fixed set of queryable fields with their native addresses.
type Whitelist struct {
	entries []Entry
	byName  map[string]int
	address map[string]string
}

// NewWhitelist validates entries and resolves their native addresses.
// A nil addresser means DotPath.
func NewWhitelist(addr Addresser, entries ...Entry) (*Whitelist, error) {
	if addr == nil {
		addr = DotPath
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}

	w := &Whitelist{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		address: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("field name is required")
		}
		if _, dup := w.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", e.Name)
		}
		switch e.Type {
		case Number, String, Category:
		default:
			return nil, fmt.Errorf("field %q: invalid value type %q", e.Name, e.Type)
		}
		if len(e.Operators) == 0 {
			e.Operators = DefaultOperators(e.Type)
		}
		for _, op := range e.Operators {
			if !op.IsValid() {
				return nil, fmt.Errorf("field %q: invalid operator %q", e.Name, op)
			}
			if e.Type != Number && op != OpEq && op != OpIn {
				return nil, fmt.Errorf("field %q: operator %q needs a number field", e.Name, op)
			}
		}
		if e.Path == "" {
			e.Path = e.Name
		}
		e.Operators = slices.Clone(e.Operators)

		w.byName[e.Name] = len(w.entries)
		w.entries = append(w.entries, e)
		w.address[e.Name] = addr(e.Path)
	}
	return w, nil
}

// MustWhitelist calls NewWhitelist and panics on error.
func MustWhitelist(addr Addresser, entries ...Entry) *Whitelist {
	w, err := NewWhitelist(addr, entries...)
	if err != nil {
		panic(err)
	}
	return w
}

// Lookup returns the entry for a field name.
func (w *Whitelist) Lookup(name string) (Entry, bool) {
	i, ok := w.byName[name]
	if !ok {
		return Entry{}, false
	}
	return w.entries[i], true
}

// Address returns the native store address of a whitelisted field.
func (w *Whitelist) Address(name string) string {
	return w.address[name]
}

// Entries returns all entries in declaration order.
func (w *Whitelist) Entries() []Entry {
	return slices.Clone(w.entries)
}

// Names returns all field names in declaration order.
func (w *Whitelist) Names() []string {
	names := make([]string, len(w.entries))
	for i, e := range w.entries {
		names[i] = e.Name
	}
	return names
}
