package records

import (
	"context"

	"github.com/kailas-cloud/nlquery/internal/db"
)

// mockStore implements the consumer interfaces for tests.
type mockStore struct {
	findFn        func(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExists   bool
	indexErr      error
	inserted      [][]db.Document
	targets       []string
	insertErr     error
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.indexExists, m.indexErr
}

func (m *mockStore) InsertMany(_ context.Context, collection string, docs []db.Document) (int, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.targets = append(m.targets, collection)
	m.inserted = append(m.inserted, docs)
	return len(docs), nil
}
