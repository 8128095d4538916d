package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/nlquery/internal/db"
)

// InsertMany stores docs as JSON documents under the key prefix collection,
// pipelined in one round trip. The document "id" (or "_id") becomes the key
// suffix; a UUID is generated when absent. Re-seeding a document with the
// same id overwrites it.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []db.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	keys := make([]string, len(docs))
	cmds := make([]rueidis.Completed, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("encode document %d: %w", i, err)
		}
		keys[i] = collection + documentID(doc)
		cmds[i] = s.b().Arbitrary("JSON.SET").Keys(keys[i]).Args("$", string(data)).Build()
	}

	stored := 0
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return stored, &db.Error{Op: db.OpJSONSet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		stored++
	}
	return stored, nil
}

func documentID(doc db.Document) string {
	for _, k := range []string{"id", "_id"} {
		switch v := doc[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64, int, int64:
			return fmt.Sprint(v)
		}
	}
	return uuid.NewString()
}
