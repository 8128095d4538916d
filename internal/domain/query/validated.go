package query

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// SortOrder is the direction of the result ordering.
type SortOrder string

// Sort orders.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Filter is one whitelisted comparison.
type Filter struct {
	Field string
	Type  schema.ValueType
	Op    schema.Operator
	Value Value
}

// Validated is a draft that passed every whitelist check. It can only be
// built by Validate (and rewritten by Normalize) and is immutable.
type Validated struct {
	filters    []Filter
	sortField  string
	order      SortOrder
	limit      int
	normalized bool
}

// Filters returns a copy of the filters.
func (q Validated) Filters() []Filter { return slices.Clone(q.filters) }

// SortField returns the sort field and whether one was requested.
func (q Validated) SortField() (string, bool) { return q.sortField, q.sortField != "" }

// SortOrder returns the sort direction.
func (q Validated) SortOrder() SortOrder { return q.order }

// Limit returns the result limit, always within [MinLimit, MaxLimit].
func (q Validated) Limit() int { return q.limit }

// Normalized reports whether categorical values were expanded to variants.
func (q Validated) Normalized() bool { return q.normalized }

// IsZero reports whether q was never produced by Validate.
func (q Validated) IsZero() bool { return q.limit == 0 }

type filterJSON struct {
	Field    string          `json:"field"`
	Operator schema.Operator `json:"operator"`
	Value    Value           `json:"value"`
}

type validatedJSON struct {
	Filters   []filterJSON `json:"filters"`
	SortField *string      `json:"sort_field"`
	SortOrder SortOrder    `json:"sort_order"`
	Limit     int          `json:"limit"`
}

// MarshalJSON encodes the query in the draft wire format.
func (q Validated) MarshalJSON() ([]byte, error) {
	out := validatedJSON{
		Filters:   make([]filterJSON, len(q.filters)),
		SortOrder: q.order,
		Limit:     q.limit,
	}
	for i, f := range q.filters {
		out.Filters[i] = filterJSON{Field: f.Field, Operator: f.Op, Value: f.Value}
	}
	if q.sortField != "" {
		sf := q.sortField
		out.SortField = &sf
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal validated query: %w", err)
	}
	return b, nil
}
