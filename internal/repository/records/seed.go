package records

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/nlquery/internal/db"
)

// writer is the consumer interface for bulk loads (ISP).
type writer interface {
	InsertMany(ctx context.Context, collection string, docs []db.Document) (int, error)
}

// Seeder bulk-loads student documents in batches.
type Seeder struct {
	store     writer
	layout    Layout
	batchSize int
}

// DefaultSeedBatch is the number of documents per InsertMany call.
const DefaultSeedBatch = 500

// NewSeeder creates a seeder. batchSize <= 0 means DefaultSeedBatch.
func NewSeeder(s writer, layout Layout, batchSize int) *Seeder {
	if batchSize <= 0 {
		batchSize = DefaultSeedBatch
	}
	return &Seeder{store: s, layout: layout, batchSize: batchSize}
}

// Seed writes docs and returns how many were stored.
func (s *Seeder) Seed(ctx context.Context, docs []db.Document) (int, error) {
	total := 0
	for start := 0; start < len(docs); start += s.batchSize {
		end := min(start+s.batchSize, len(docs))
		n, err := s.store.InsertMany(ctx, s.layout.WriteTarget(), docs[start:end])
		if err != nil {
			return total, fmt.Errorf("seed batch at %d: %w", start, err)
		}
		total += n
	}
	return total, nil
}
