package nlquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/nlquery/internal/domain"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
)

// Translator turns a question into a JSON query draft:
//
//	{"filters":[{"field":"cgpa","operator":"gte","value":8}],"sort_field":"cgpa","sort_order":"desc","limit":10}
//
// The draft is untrusted; it is validated before use.
type Translator interface {
	Translate(ctx context.Context, text string) ([]byte, error)
}

// translatorAdapter wraps public Translator to satisfy nlq.Translator.
type translatorAdapter struct {
	inner Translator
}

func (a *translatorAdapter) Translate(ctx context.Context, text string) (query.Draft, error) {
	raw, err := a.inner.Translate(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrTranslationFailed) {
			return query.Draft{}, err
		}
		return query.Draft{}, fmt.Errorf("%w: %w", domain.ErrTranslationFailed, err)
	}
	d, err := query.ParseDraft(raw)
	if err != nil {
		return query.Draft{}, fmt.Errorf("%w: %w", domain.ErrTranslationFailed, err)
	}
	return d, nil
}

// noopTranslator fails every call (used when no translator is configured).
type noopTranslator struct{}

func (noopTranslator) Translate(_ context.Context, _ string) (query.Draft, error) {
	return query.Draft{}, fmt.Errorf(
		"%w: nlquery: translator not configured (use WithTranslator or WithOpenAI)", domain.ErrTranslationFailed,
	)
}
