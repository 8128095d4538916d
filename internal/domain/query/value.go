package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nlquery/internal/domain/canon"
)

// Kind is the runtime shape of a filter value.
type Kind uint8

// Value kinds.
const (
	KindNumber Kind = iota + 1
	KindString
	KindList
	// KindVariants is a variant-matching predicate produced by Normalize.
	KindVariants
)

// Value is an immutable, type-checked filter value.
type Value struct {
	kind  Kind
	num   float64
	str   string
	list  []Value
	class canon.Class
}

// NumberValue creates a numeric value.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// StringValue creates a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// ListValue creates a list value from scalars.
func ListValue(items ...Value) Value { return Value{kind: KindList, list: slices.Clone(items)} }

// VariantsValue creates a value matching every spelling of a class.
func VariantsValue(c canon.Class) Value {
	c.Spellings = slices.Clone(c.Spellings)
	return Value{kind: KindVariants, class: c}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric payload.
func (v Value) Number() float64 { return v.num }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Items returns a copy of the list payload.
func (v Value) Items() []Value { return slices.Clone(v.list) }

// Class returns the variant class payload.
func (v Value) Class() canon.Class {
	c := v.class
	c.Spellings = slices.Clone(c.Spellings)
	return c
}

// IsScalar reports whether the value is a single number or string.
func (v Value) IsScalar() bool { return v.kind == KindNumber || v.kind == KindString }

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindList:
		return slices.EqualFunc(v.list, o.list, Value.Equal)
	case KindVariants:
		return v.class.Dimension == o.class.Dimension &&
			v.class.Canonical == o.class.Canonical &&
			slices.Equal(v.class.Spellings, o.class.Spellings)
	}
	return true
}

// Any returns the value as a plain Go value (float64, string, []any or
// map[string]any for variants).
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindVariants:
		m := map[string]any{"spellings": slices.Clone(v.class.Spellings)}
		if !v.class.IsLiteral() {
			m["canonical"] = v.class.Canonical
		}
		return m
	}
	return nil
}

// MarshalJSON encodes the value in its plain JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(v.Any())
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return b, nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindVariants:
		if v.class.IsLiteral() {
			return "~" + strconv.Quote(v.class.Spellings[0])
		}
		return "~" + v.class.Canonical
	}
	return "<nil>"
}
