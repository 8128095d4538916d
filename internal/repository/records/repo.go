// Package records binds the query executor to a concrete record store.
package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/usecase/nlq"
)

// Layout names where student records live in a store.
type Layout struct {
	// Collection is the FT index (Redis) or collection (MongoDB, memory) to query.
	Collection string
	// KeyPrefix is the Redis JSON key prefix. Empty for other stores.
	KeyPrefix string
}

// Default record locations.
const (
	RedisIndex     = "nlq:students:idx"
	RedisKeyPrefix = "nlq:student:"
	Collection     = "students"
)

// RedisLayout returns the layout of JSON student documents on Redis.
func RedisLayout() Layout {
	return Layout{Collection: RedisIndex, KeyPrefix: RedisKeyPrefix}
}

// CollectionLayout returns a layout for collection-based stores.
func CollectionLayout(name string) Layout {
	if name == "" {
		name = Collection
	}
	return Layout{Collection: name}
}

// WriteTarget is where InsertMany writes: the key prefix on Redis, the
// collection elsewhere.
func (l Layout) WriteTarget() string {
	if l.KeyPrefix != "" {
		return l.KeyPrefix
	}
	return l.Collection
}

// finder is the consumer interface for record reads (ISP).
type finder interface {
	Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
}

// Repo implements usecase/nlq.RecordStore.
type Repo struct {
	store  finder
	layout Layout
}

// New creates a records repository.
func New(s finder, layout Layout) *Repo {
	return &Repo{store: s, layout: layout}
}

// Find runs a compiled predicate against the layout's collection.
func (r *Repo) Find(ctx context.Context, req nlq.FindRequest) ([]record.Record, error) {
	docs, err := r.store.Find(ctx, &db.FindQuery{
		Collection: r.layout.Collection,
		Filter:     req.Filter,
		Sort:       req.Sort,
		Limit:      req.Limit,
		Fields:     req.Projection,
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.layout.Collection, err)
	}

	out := make([]record.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, toRecord(d))
	}
	return out, nil
}

// toRecord nests flat dotted keys ("scores.coding") into sub-documents.
func toRecord(d db.Document) record.Record {
	r := make(record.Record, len(d))
	var dotted []string
	for k, v := range d {
		if strings.Contains(k, ".") {
			dotted = append(dotted, k)
			continue
		}
		r[k] = v
	}
	for _, k := range dotted {
		r.Set(k, d[k])
	}
	return r
}
