// Package db defines the record store contracts shared by the Redis,
// MongoDB and in-memory drivers.
package db

import (
	"context"
	"time"
)

// Store is the record store facade combining all sub-interfaces.
// Consumers depend on the narrow interfaces they use.
type Store interface {
	Pinger
	Finder
	DocumentWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Finder evaluates a predicate over one collection.
type Finder interface {
	Find(ctx context.Context, q *FindQuery) ([]Document, error)
}

// DocumentWriter bulk-loads documents into a collection.
type DocumentWriter interface {
	InsertMany(ctx context.Context, collection string, docs []Document) (int, error)
}

// IndexManager is implemented by stores that search through a secondary
// index which must exist before Find (Redis query engine).
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}
