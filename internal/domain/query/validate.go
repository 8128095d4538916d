package query

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/kailas-cloud/nlquery/internal/domain"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// Draft limits.
const (
	MinLimit       = 1
	MaxLimit       = 200
	DefaultLimit   = 50
	MaxFilters     = 32
	MaxListItems   = 32
	MaxValueLength = 128
)

// Wire keys of the draft format. The legacy translator prompt used "op" and
// "sort_by"; both are still accepted.
const (
	keyFilters   = "filters"
	keyField     = "field"
	keyOperator  = "operator"
	keyOp        = "op"
	keyValue     = "value"
	keySortField = "sort_field"
	keySortBy    = "sort_by"
	keySortOrder = "sort_order"
	keyLimit     = "limit"
)

// Validate checks a draft against the whitelist. It either returns a
// Validated query or a *domain.RejectionError; limits outside
// [MinLimit, MaxLimit] are rejected, never clamped. Validate has no side
// effects.
func Validate(d Draft, w *schema.Whitelist) (Validated, error) {
	obj, ok := d.raw.(map[string]any)
	if !ok {
		return Validated{}, domain.Reject("", "draft is not an object")
	}

	filters, err := validateFilters(obj, w)
	if err != nil {
		return Validated{}, err
	}

	q := Validated{filters: filters, order: Descending, limit: DefaultLimit}

	if raw, ok := lookup(obj, keySortField, keySortBy); ok {
		name, isStr := raw.(string)
		if !isStr {
			return Validated{}, domain.Reject(keySortField, "sort_field must be a string")
		}
		if name != "" {
			if _, known := w.Lookup(name); !known {
				return Validated{}, domain.Reject(name, "sort_field %q is not allowed", name)
			}
			q.sortField = name
		}
	}

	if raw, ok := lookup(obj, keySortOrder); ok {
		order, err := parseSortOrder(raw)
		if err != nil {
			return Validated{}, err
		}
		q.order = order
	}

	if raw, ok := lookup(obj, keyLimit); ok {
		limit, isInt := asInteger(raw)
		if !isInt {
			return Validated{}, domain.Reject(keyLimit, "limit must be an integer")
		}
		if limit < MinLimit || limit > MaxLimit {
			return Validated{}, domain.Reject(keyLimit,
				"limit must be between %d and %d, got %d", MinLimit, MaxLimit, limit)
		}
		q.limit = int(limit)
	}

	return q, nil
}

func validateFilters(obj map[string]any, w *schema.Whitelist) ([]Filter, error) {
	raw, ok := obj[keyFilters]
	if !ok || raw == nil {
		return nil, domain.Reject(keyFilters, "missing filters list")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, domain.Reject(keyFilters, "filters must be a list")
	}
	if len(list) > MaxFilters {
		return nil, domain.Reject(keyFilters, "too many filters (max %d)", MaxFilters)
	}

	filters := make([]Filter, 0, len(list))
	for i, item := range list {
		f, err := validateFilter(i, item, w)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func validateFilter(i int, item any, w *schema.Whitelist) (Filter, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Filter{}, domain.RejectFilter(i, "", "filter is not an object")
	}

	field, ok := m[keyField].(string)
	if !ok || field == "" {
		return Filter{}, domain.RejectFilter(i, "", "missing field name")
	}
	entry, ok := w.Lookup(field)
	if !ok {
		return Filter{}, domain.RejectFilter(i, field, "field %q is not allowed", field)
	}

	rawOp, _ := lookup(m, keyOperator, keyOp)
	opName, ok := rawOp.(string)
	if !ok || opName == "" {
		return Filter{}, domain.RejectFilter(i, field, "missing operator")
	}
	op := schema.Operator(opName)
	if !op.IsValid() {
		return Filter{}, domain.RejectFilter(i, field, "operator %q is not allowed", opName)
	}
	if !entry.Allows(op) {
		return Filter{}, domain.RejectFilter(i, field,
			"operator %q is not allowed on %s field %q", opName, entry.Type, field)
	}

	rawValue, ok := m[keyValue]
	if !ok || rawValue == nil {
		return Filter{}, domain.RejectFilter(i, field, "missing value")
	}

	var value Value
	if op == schema.OpIn {
		items, isList := rawValue.([]any)
		if !isList {
			return Filter{}, domain.RejectFilter(i, field, "operator \"in\" requires a list value")
		}
		if len(items) == 0 {
			return Filter{}, domain.RejectFilter(i, field, "operator \"in\" requires a non-empty list")
		}
		if len(items) > MaxListItems {
			return Filter{}, domain.RejectFilter(i, field, "too many list items (max %d)", MaxListItems)
		}
		vals := make([]Value, 0, len(items))
		for _, it := range items {
			v, reason := scalarValue(entry.Type, it)
			if reason != "" {
				return Filter{}, domain.RejectFilter(i, field, "list item: %s", reason)
			}
			vals = append(vals, v)
		}
		value = ListValue(vals...)
	} else {
		if _, isList := rawValue.([]any); isList {
			return Filter{}, domain.RejectFilter(i, field, "operator %q requires a scalar value", opName)
		}
		v, reason := scalarValue(entry.Type, rawValue)
		if reason != "" {
			return Filter{}, domain.RejectFilter(i, field, "%s", reason)
		}
		value = v
	}

	return Filter{Field: field, Type: entry.Type, Op: op, Value: value}, nil
}

// scalarValue converts raw into a Value of type t, or returns a rejection reason.
func scalarValue(t schema.ValueType, raw any) (Value, string) {
	switch t {
	case schema.Number:
		f, ok := asNumber(raw)
		if !ok {
			return Value{}, "expected a number value"
		}
		return NumberValue(f), ""
	case schema.String, schema.Category:
		s, ok := raw.(string)
		if !ok {
			return Value{}, "expected a string value"
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Value{}, "empty string value"
		}
		if len(s) > MaxValueLength {
			return Value{}, "string value too long"
		}
		return StringValue(s), ""
	}
	return Value{}, "unsupported field type"
}

func parseSortOrder(raw any) (SortOrder, error) {
	s, ok := raw.(string)
	if ok {
		switch strings.ToLower(s) {
		case "asc", "ascending":
			return Ascending, nil
		case "desc", "descending":
			return Descending, nil
		}
	}
	return "", domain.Reject(keySortOrder, "sort_order must be \"asc\" or \"desc\"")
}

// lookup returns the first non-null value among keys.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asNumber(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asInteger(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
