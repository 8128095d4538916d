// Package memory implements an in-process record store for local runs and
// tests. Predicates are evaluated with predicate.Match.
package memory

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memory: store closed")

// Store keeps documents per collection in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]record.Record
	closed      bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]record.Record)}
}

// Ping fails only after Close.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: ErrClosed}
	}
	return nil
}

// Close marks the store closed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// InsertMany appends deep copies of docs to a collection.
func (s *Store) InsertMany(_ context.Context, collection string, docs []db.Document) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, &db.Error{Op: db.OpInsertMany, Err: ErrClosed}
	}
	for _, d := range docs {
		s.collections[collection] = append(s.collections[collection], record.Record(d).Clone())
	}
	return len(docs), nil
}

// Find filters, sorts and limits a collection in process.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("%w: collection is required", db.ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", db.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, &db.Error{Op: db.OpFind, Err: ErrClosed}
	}
	var matched []record.Record
	for _, r := range s.collections[q.Collection] {
		if predicate.Match(q.Filter, r) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	if q.Sort != nil {
		sortRecords(matched, q.Sort)
	}
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	docs := make([]db.Document, 0, len(matched))
	for _, r := range matched {
		if len(q.Fields) > 0 {
			docs = append(docs, db.Document(record.Projection(q.Fields).Apply(r)))
			continue
		}
		docs = append(docs, db.Document(r.Clone()))
	}
	return docs, nil
}

// sortRecords orders by one path. Records missing the path (or holding a
// value of another kind) sort last in either direction, the way MongoDB
// places them after present values for a descending sort.
func sortRecords(rs []record.Record, s *predicate.Sort) {
	slices.SortStableFunc(rs, func(a, b record.Record) int {
		av, aok := sortKey(a, s.Path)
		bv, bok := sortKey(b, s.Path)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := compareKeys(av, bv)
		if s.Descending() {
			return -c
		}
		return c
	})
}

func sortKey(r record.Record, path string) (any, bool) {
	v, ok := r.Get(path)
	if !ok || v == nil {
		return nil, false
	}
	if f, ok := predicate.ToFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return nil, false
}

// compareKeys orders numbers before strings.
func compareKeys(a, b any) int {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	switch {
	case aNum && bNum:
		return cmp.Compare(af, bf)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return cmp.Compare(a.(string), b.(string))
}

// Load decodes a JSON array of documents from r into a collection.
// Numbers keep their literal form as json.Number.
func (s *Store) Load(ctx context.Context, collection string, r io.Reader) (int, error) {
	docs, err := DecodeDocuments(r)
	if err != nil {
		return 0, err
	}
	return s.InsertMany(ctx, collection, docs)
}

// LoadFile is Load over a file on disk.
func (s *Store) LoadFile(ctx context.Context, collection, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	return s.Load(ctx, collection, bytes.NewReader(data))
}

// DecodeDocuments parses a JSON array of objects.
func DecodeDocuments(r io.Reader) ([]db.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var docs []db.Document
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}
