package nlquery

import "github.com/kailas-cloud/nlquery/internal/domain/query"

// Filter is one validated comparison.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// Query is a validated query as accepted by the whitelist.
type Query struct {
	Filters   []Filter `json:"filters"`
	SortField string   `json:"sort_field,omitempty"` // empty when unsorted
	SortOrder string   `json:"sort_order"`           // "asc" or "desc"
	Limit     int      `json:"limit"`
}

// Result is the answer to one question.
type Result struct {
	Query     Query            `json:"query"`
	Records   []map[string]any `json:"records"`
	Count     int              `json:"count"`
	WasCached bool             `json:"was_cached"`
}

// Validation is the outcome of checking a draft offline.
type Validation struct {
	Query      Query `json:"query"`
	Normalized Query `json:"normalized"`
	// Predicate is a readable rendering of the compiled store predicate.
	Predicate string `json:"predicate"`
}

func toQuery(v query.Validated) Query {
	fs := v.Filters()
	q := Query{
		Filters:   make([]Filter, len(fs)),
		SortOrder: string(v.SortOrder()),
		Limit:     v.Limit(),
	}
	for i, f := range fs {
		q.Filters[i] = Filter{Field: f.Field, Operator: string(f.Op), Value: f.Value.Any()}
	}
	if name, ok := v.SortField(); ok {
		q.SortField = name
	}
	return q
}
