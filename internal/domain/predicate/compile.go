package predicate

import (
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// Compile turns a validated query into a predicate tree. Every filter becomes
// one child of the root And; a categorical "in" expanded by Normalize becomes
// a nested Or of MatchAny leaves. Compile cannot fail: all failure paths
// belong to query.Validate.
func Compile(q query.Validated, w *schema.Whitelist) Compiled {
	filters := q.Filters()
	root := And{Children: make([]Node, 0, len(filters))}
	for _, f := range filters {
		root.Children = append(root.Children, compileFilter(f, w.Address(f.Field)))
	}

	d := Directives{Limit: q.Limit()}
	if field, ok := q.SortField(); ok {
		d.Sort = &Sort{Field: field, Path: w.Address(field), Order: q.SortOrder()}
	}
	return Compiled{root: root, directives: d}
}

func compileFilter(f query.Filter, path string) Node {
	v := f.Value
	switch {
	case v.Kind() == query.KindVariants:
		return matchAny(path, v)

	case v.Kind() == query.KindList:
		items := v.Items()
		if len(items) > 0 && items[0].Kind() == query.KindVariants {
			or := Or{Children: make([]Node, len(items))}
			for i, item := range items {
				or.Children[i] = matchAny(path, item)
			}
			return or
		}
		values := make([]any, len(items))
		for i, item := range items {
			values[i] = item.Any()
		}
		return In{Path: path, Values: values}

	default:
		return Compare{Path: path, Op: Op(f.Op), Value: v.Any()}
	}
}

func matchAny(path string, v query.Value) MatchAny {
	c := v.Class()
	return MatchAny{Path: path, Canonical: c.Canonical, Spellings: c.Spellings}
}
