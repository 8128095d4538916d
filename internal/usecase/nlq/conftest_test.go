package nlq

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	"github.com/kailas-cloud/nlquery/internal/repository/draftcache"
)

// --- Mocks ---

type mockTranslator struct {
	mu     sync.Mutex
	drafts map[string]string
	err    error
	calls  atomic.Int32
	gate   chan struct{}
}

func (m *mockTranslator) Translate(ctx context.Context, text string) (query.Draft, error) {
	m.calls.Add(1)
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return query.Draft{}, ctx.Err()
		}
	}
	if m.err != nil {
		return query.Draft{}, m.err
	}
	m.mu.Lock()
	raw, ok := m.drafts[text]
	m.mu.Unlock()
	if !ok {
		raw = `{"filters":[]}`
	}
	return query.ParseDraft([]byte(raw))
}

// mockStore evaluates requests in process and returns full, unprojected rows.
type mockStore struct {
	rows  []record.Record
	err   error
	calls atomic.Int32
	last  FindRequest
	extra int
}

func (m *mockStore) Find(_ context.Context, req FindRequest) ([]record.Record, error) {
	m.calls.Add(1)
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	var out []record.Record
	for _, r := range m.rows {
		if predicate.Match(req.Filter, r) {
			out = append(out, r)
		}
		// misbehaving store: ignores the limit by extra rows
		if len(out) >= req.Limit+m.extra {
			break
		}
	}
	return out, nil
}

func studentRows() []record.Record {
	return []record.Record{
		{"name": "Asha", "year": "TY", "branch": "ECS", "cgpa": 8.9, "password": "x",
			"github_analysis": map[string]any{"github_score": 72.0}},
		{"name": "Ravi", "year": "te", "branch": "E&TC", "cgpa": 7.2, "email": "r@example.com",
			"github_analysis": map[string]any{"github_score": 65.0}},
		{"name": "Meera", "year": "3", "branch": "entc", "cgpa": 9.4,
			"github_analysis": map[string]any{"github_score": 40.0}},
		{"name": "Kabir", "year": "SY", "branch": "ECS", "cgpa": 6.1,
			"github_analysis": map[string]any{"github_score": 90.0}},
		{"name": "Zoya", "year": "TY", "branch": "CSE", "cgpa": 8.0,
			"github_analysis": map[string]any{"github_score": 88.0}},
	}
}

func newTestService(t *testing.T, tr *mockTranslator, st *mockStore, opts ...Option) *Service {
	t.Helper()
	w := schema.Students(schema.DotPath)
	return New(tr, draftcache.New(nil, nil), NewExecutor(st, record.Students), w, canon.Academic(), opts...)
}

func mustRequest(t *testing.T, text string, limit int) query.Request {
	t.Helper()
	r, err := query.NewRequest(text, limit)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return r
}
