package mongo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
)

var compareOps = map[predicate.Op]string{
	predicate.Eq:  "$eq",
	predicate.Gt:  "$gt",
	predicate.Gte: "$gte",
	predicate.Lt:  "$lt",
	predicate.Lte: "$lte",
}

// RenderFilter translates the predicate tree into a MongoDB query document.
func RenderFilter(root predicate.And) (bson.D, error) {
	switch len(root.Children) {
	case 0:
		return bson.D{}, nil
	case 1:
		return renderNode(root.Children[0])
	}
	return renderNode(root)
}

func renderNode(n predicate.Node) (bson.D, error) {
	switch t := n.(type) {
	case predicate.And:
		children, err := renderAll(t.Children)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$and", Value: children}}, nil

	case predicate.Or:
		if len(t.Children) == 0 {
			return nil, fmt.Errorf("%w: empty disjunction", db.ErrInvalidQuery)
		}
		children, err := renderAll(t.Children)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$or", Value: children}}, nil

	case predicate.Compare:
		op, ok := compareOps[t.Op]
		if !ok {
			return nil, fmt.Errorf("%w: operator %q", db.ErrInvalidQuery, t.Op)
		}
		if _, isStr := t.Value.(string); isStr && t.Op != predicate.Eq {
			return nil, fmt.Errorf("%w: operator %s on string %s", db.ErrInvalidQuery, t.Op, t.Path)
		}
		return bson.D{{Key: t.Path, Value: bson.D{{Key: op, Value: t.Value}}}}, nil

	case predicate.In:
		if len(t.Values) == 0 {
			return nil, fmt.Errorf("%w: empty membership list for %s", db.ErrInvalidQuery, t.Path)
		}
		return bson.D{{Key: t.Path, Value: bson.D{{Key: "$in", Value: bson.A(t.Values)}}}}, nil

	case predicate.MatchAny:
		return renderMatchAny(t)
	}
	return nil, fmt.Errorf("%w: unsupported node %T", db.ErrInvalidQuery, n)
}

func renderAll(nodes []predicate.Node) (bson.A, error) {
	out := make(bson.A, 0, len(nodes))
	for _, c := range nodes {
		d, err := renderNode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// renderMatchAny matches any spelling case-insensitively with an anchored
// regex. Spellings that are numbers also match numerically stored values.
func renderMatchAny(m predicate.MatchAny) (bson.D, error) {
	if len(m.Spellings) == 0 {
		return nil, fmt.Errorf("%w: empty variant set for %s", db.ErrInvalidQuery, m.Path)
	}
	re := bson.D{{Key: m.Path, Value: primitive.Regex{Pattern: VariantPattern(m.Spellings), Options: "i"}}}

	var nums bson.A
	for _, s := range m.Spellings {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return re, nil
	}
	return bson.D{{Key: "$or", Value: bson.A{
		re,
		bson.D{{Key: m.Path, Value: bson.D{{Key: "$in", Value: nums}}}},
	}}}, nil
}

// VariantPattern builds an anchored alternation of literal spellings, with
// inner whitespace matching any whitespace run.
func VariantPattern(spellings []string) string {
	alts := make([]string, 0, len(spellings))
	for _, s := range spellings {
		words := strings.Fields(s)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	return `^\s*(?:` + strings.Join(alts, "|") + `)\s*$`
}
