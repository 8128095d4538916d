package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/nlquery/internal/db"
)

// Find runs the predicate as a find command with an inclusion projection.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("%w: collection is required", db.ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", db.ErrInvalidQuery)
	}

	filter, err := RenderFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetLimit(int64(q.Limit))
	if len(q.Fields) > 0 {
		opts.SetProjection(projection(q.Fields))
	}
	if q.Sort != nil {
		dir := 1
		if q.Sort.Descending() {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.Sort.Path, Value: dir}})
	}

	cur, err := s.db.Collection(q.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, &db.Error{Op: db.OpDecode, Err: err}
	}

	docs := make([]db.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}
	return docs, nil
}

// InsertMany loads documents into a collection.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []db.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	items := make([]any, len(docs))
	for i, d := range docs {
		items[i] = bson.M(d)
	}
	res, err := s.db.Collection(collection).InsertMany(ctx, items)
	if err != nil {
		return 0, &db.Error{Op: db.OpInsertMany, Err: err}
	}
	return len(res.InsertedIDs), nil
}

func projection(fields []string) bson.D {
	p := make(bson.D, 0, len(fields)+1)
	hasID := false
	for _, f := range fields {
		if f == "_id" {
			hasID = true
		}
		p = append(p, bson.E{Key: f, Value: 1})
	}
	if !hasID {
		p = append(p, bson.E{Key: "_id", Value: 0})
	}
	return p
}

// toDocument converts driver types to plain Go values.
func toDocument(m bson.M) db.Document {
	return db.Document(plain(map[string]any(m)).(map[string]any))
}

func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plain(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plain(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		return plain([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	}
	return v
}
