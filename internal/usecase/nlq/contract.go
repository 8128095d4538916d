package nlq

import (
	"context"

	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
)

// Translator turns free text into an untrusted candidate draft.
type Translator interface {
	Translate(ctx context.Context, text string) (query.Draft, error)
}

// FindRequest is a compiled predicate bound to a record store.
type FindRequest struct {
	Filter     predicate.And
	Sort       *predicate.Sort
	Limit      int
	Projection record.Projection
}

// RecordStore evaluates predicates against stored records.
type RecordStore interface {
	Find(ctx context.Context, req FindRequest) ([]record.Record, error)
}

// DraftCache holds validated drafts keyed by query text. Get counts the
// lookup in cache metrics, Peek does not.
type DraftCache interface {
	Get(text string) (query.Validated, bool)
	Peek(text string) (query.Validated, bool)
	Put(text string, q query.Validated)
}
