package query

import (
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// Normalize rewrites eq/in values on categorical fields into variant sets:
// a registered spelling expands to its whole class, an unknown one matches
// only what was typed (case-insensitively). Fields, operators and the number
// of filters never change. Normalizing twice yields the same values.
func Normalize(q Validated, reg *canon.Registry) Validated {
	out := q
	out.filters = make([]Filter, len(q.filters))
	for i, f := range q.filters {
		if f.Type == schema.Category && (f.Op == schema.OpEq || f.Op == schema.OpIn) {
			f.Value = normalizeValue(reg, f.Field, f.Value)
		}
		out.filters[i] = f
	}
	out.normalized = true
	return out
}

func normalizeValue(reg *canon.Registry, dimension string, v Value) Value {
	switch v.Kind() {
	case KindString:
		return VariantsValue(reg.Resolve(dimension, v.Str()))
	case KindList:
		items := v.Items()
		for i, item := range items {
			items[i] = normalizeValue(reg, dimension, item)
		}
		return ListValue(items...)
	default:
		return v
	}
}
