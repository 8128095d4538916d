package nlq

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/nlquery/internal/domain"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
)

// Executor runs compiled predicates against a record store.
type Executor struct {
	store      RecordStore
	projection record.Projection
}

// NewExecutor creates an executor returning only fields in projection.
func NewExecutor(store RecordStore, projection record.Projection) *Executor {
	return &Executor{store: store, projection: projection}
}

// Execute returns at most the compiled limit of records, each reduced to the
// projection. No matches yield an empty, non-nil slice.
func (e *Executor) Execute(ctx context.Context, c predicate.Compiled) ([]record.Record, error) {
	d := c.Directives()
	rows, err := e.store.Find(ctx, FindRequest{
		Filter:     c.Root(),
		Sort:       d.Sort,
		Limit:      d.Limit,
		Projection: e.projection,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: find records: %w", domain.ErrStoreUnavailable, err)
	}

	if len(rows) > d.Limit {
		rows = rows[:d.Limit]
	}
	out := make([]record.Record, 0, len(rows))
	for _, r := range rows {
		// the store's projection is not trusted
		out = append(out, e.projection.Apply(r))
	}
	return out, nil
}
