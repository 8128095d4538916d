package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// indexStore is the consumer interface for FT index lifecycle (ISP).
type indexStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// BuildIndex derives the FT index over JSON student documents from the
// whitelist: every field is indexed at $.path under its attribute alias.
// Categories are case-insensitive tags so variant sets match any casing.
func BuildIndex(w *schema.Whitelist, l Layout) (*db.IndexDefinition, error) {
	var prefixes []string
	if l.KeyPrefix != "" {
		prefixes = append(prefixes, l.KeyPrefix)
	}
	b := db.NewIndex(l.Collection, prefixes...)

	for _, e := range w.Entries() {
		path, alias := "$."+e.Path, w.Address(e.Name)
		switch e.Type {
		case schema.Number:
			b.Number(path, alias)
		case schema.Category:
			b.Tag(path, alias, false)
		case schema.String:
			b.Tag(path, alias, true)
		default:
			return nil, fmt.Errorf("field %s: unknown value type %s", e.Name, e.Type)
		}
		b.Sortable()
	}

	return b.Build()
}

// EnsureIndex creates the index unless it already exists.
// Reports whether it was created.
func EnsureIndex(ctx context.Context, s indexStore, def *db.IndexDefinition) (bool, error) {
	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists {
		return false, nil
	}

	if err := s.CreateIndex(ctx, def); err != nil {
		// lost a race with another instance
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return true, nil
}
