package predicate

import (
	"encoding/json"
	"strconv"

	"github.com/kailas-cloud/nlquery/internal/domain/canon"
)

// Getter resolves a path in a record.
type Getter interface {
	Get(path string) (any, bool)
}

// Match evaluates n against a record in process.
func Match(n Node, g Getter) bool {
	switch t := n.(type) {
	case And:
		for _, c := range t.Children {
			if !Match(c, g) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range t.Children {
			if Match(c, g) {
				return true
			}
		}
		return false
	case Compare:
		v, ok := g.Get(t.Path)
		return ok && compare(v, t.Op, t.Value)
	case In:
		v, ok := g.Get(t.Path)
		if !ok {
			return false
		}
		for _, want := range t.Values {
			if compare(v, Eq, want) {
				return true
			}
		}
		return false
	case MatchAny:
		v, ok := g.Get(t.Path)
		if !ok {
			return false
		}
		s, ok := asText(v)
		if !ok {
			return false
		}
		folded := canon.Fold(s)
		for _, sp := range t.Spellings {
			if canon.Fold(sp) == folded {
				return true
			}
		}
		return false
	}
	return false
}

func compare(stored any, op Op, want any) bool {
	switch w := want.(type) {
	case float64:
		f, ok := ToFloat(stored)
		if !ok {
			return false
		}
		switch op {
		case Eq:
			return f == w
		case Gt:
			return f > w
		case Gte:
			return f >= w
		case Lt:
			return f < w
		case Lte:
			return f <= w
		}
	case string:
		s, ok := stored.(string)
		return ok && op == Eq && s == w
	}
	return false
}

// ToFloat converts stored numeric representations to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asText(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}
