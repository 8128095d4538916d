package nlquery

import (
	"context"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/usecase/nlq"
)

// --- queryUseCase mock ---

type mockQueryUC struct {
	runFn      func(ctx context.Context, req query.Request) (nlq.Response, error)
	validateFn func(d query.Draft) (query.Validated, predicate.Compiled, error)
}

func (m *mockQueryUC) RunQuery(ctx context.Context, req query.Request) (nlq.Response, error) {
	return m.runFn(ctx, req)
}

func (m *mockQueryUC) Validate(d query.Draft) (query.Validated, predicate.Compiled, error) {
	return m.validateFn(d)
}

// --- seedUseCase mock ---

type mockSeeder struct {
	seedFn func(ctx context.Context, docs []db.Document) (int, error)
}

func (m *mockSeeder) Seed(ctx context.Context, docs []db.Document) (int, error) {
	return m.seedFn(ctx, docs)
}

// --- Translator mock ---

type mockTranslator struct {
	calls int
	fn    func(ctx context.Context, text string) ([]byte, error)
}

func (m *mockTranslator) Translate(ctx context.Context, text string) ([]byte, error) {
	m.calls++
	return m.fn(ctx, text)
}

func staticTranslator(draft string) *mockTranslator {
	return &mockTranslator{fn: func(context.Context, string) ([]byte, error) {
		return []byte(draft), nil
	}}
}
