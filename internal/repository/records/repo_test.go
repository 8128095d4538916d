package records

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	"github.com/kailas-cloud/nlquery/internal/usecase/nlq"
)

func TestRepo_Find_BindsQuery(t *testing.T) {
	var got *db.FindQuery
	ms := &mockStore{findFn: func(_ context.Context, q *db.FindQuery) ([]db.Document, error) {
		got = q
		return []db.Document{{"name": "Asha"}}, nil
	}}

	filter := predicate.And{Children: []predicate.Node{
		predicate.Compare{Path: "cgpa", Op: predicate.Gt, Value: 8.0},
	}}
	sort := &predicate.Sort{Field: "cgpa", Path: "cgpa"}

	recs, err := New(ms, CollectionLayout("")).Find(context.Background(), nlq.FindRequest{
		Filter:     filter,
		Sort:       sort,
		Limit:      7,
		Projection: record.Students,
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(recs) != 1 || recs[0]["name"] != "Asha" {
		t.Errorf("records = %v", recs)
	}
	if got.Collection != Collection {
		t.Errorf("collection = %q, want %q", got.Collection, Collection)
	}
	if got.Limit != 7 || got.Sort != sort {
		t.Errorf("limit/sort not forwarded: %+v", got)
	}
	if !reflect.DeepEqual(got.Fields, []string(record.Students)) {
		t.Errorf("fields = %v", got.Fields)
	}
	if got.Filter.String() != filter.String() {
		t.Errorf("filter = %s", got.Filter)
	}
}

func TestRepo_Find_NestsDottedKeys(t *testing.T) {
	ms := &mockStore{findFn: func(context.Context, *db.FindQuery) ([]db.Document, error) {
		return []db.Document{{
			"name":                         "Asha",
			"github_analysis.github_score": 72.0,
			"scores.coding":                81.0,
		}}, nil
	}}

	recs, err := New(ms, RedisLayout()).Find(context.Background(), nlq.FindRequest{Limit: 1})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := record.Record{
		"name":            "Asha",
		"github_analysis": map[string]any{"github_score": 72.0},
		"scores":          map[string]any{"coding": 81.0},
	}
	if !reflect.DeepEqual(recs[0], want) {
		t.Errorf("record = %v, want %v", recs[0], want)
	}
}

func TestRepo_Find_WrapsError(t *testing.T) {
	boom := errors.New("connection refused")
	ms := &mockStore{findFn: func(context.Context, *db.FindQuery) ([]db.Document, error) {
		return nil, boom
	}}

	_, err := New(ms, RedisLayout()).Find(context.Background(), nlq.FindRequest{Limit: 1})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
	if !strings.Contains(err.Error(), RedisIndex) {
		t.Errorf("err = %v, want index name", err)
	}
}

func TestLayout(t *testing.T) {
	if got := RedisLayout().WriteTarget(); got != RedisKeyPrefix {
		t.Errorf("redis write target = %q", got)
	}
	if got := CollectionLayout("people").WriteTarget(); got != "people" {
		t.Errorf("collection write target = %q", got)
	}
}

func TestBuildIndex(t *testing.T) {
	def, err := BuildIndex(schema.Students(schema.AttributeAlias), RedisLayout())
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(def.Fields) != len(schema.StudentEntries()) {
		t.Fatalf("fields = %d", len(def.Fields))
	}

	s := def.String()
	for _, part := range []string{
		"FT.CREATE nlq:students:idx ON JSON PREFIX 1 nlq:student: SCHEMA",
		"$.branch AS branch TAG SORTABLE",
		"$.name AS name TAG CASESENSITIVE SORTABLE",
		"$.github_analysis.github_score AS github_analysis_github_score NUMERIC SORTABLE",
		"$.scores.coding AS scores_coding NUMERIC SORTABLE",
	} {
		if !strings.Contains(s, part) {
			t.Errorf("index %q missing %q", s, part)
		}
	}

	for _, f := range def.Fields {
		if f.Alias == "name" && !f.CaseSensitive {
			t.Error("name tag should be case sensitive")
		}
		if f.Alias == "year" && f.CaseSensitive {
			t.Error("year tag should be case insensitive")
		}
	}
}

func TestEnsureIndex(t *testing.T) {
	def, err := BuildIndex(schema.Students(schema.AttributeAlias), RedisLayout())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("creates when missing", func(t *testing.T) {
		var created *db.IndexDefinition
		ms := &mockStore{createIndexFn: func(_ context.Context, d *db.IndexDefinition) error {
			created = d
			return nil
		}}
		ok, err := EnsureIndex(context.Background(), ms, def)
		if err != nil || !ok || created != def {
			t.Errorf("ok=%v err=%v created=%v", ok, err, created)
		}
	})

	t.Run("skips existing", func(t *testing.T) {
		ms := &mockStore{indexExists: true, createIndexFn: func(context.Context, *db.IndexDefinition) error {
			t.Error("CreateIndex called")
			return nil
		}}
		ok, err := EnsureIndex(context.Background(), ms, def)
		if err != nil || ok {
			t.Errorf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("tolerates concurrent create", func(t *testing.T) {
		ms := &mockStore{createIndexFn: func(context.Context, *db.IndexDefinition) error {
			return db.ErrIndexExists
		}}
		ok, err := EnsureIndex(context.Background(), ms, def)
		if err != nil || ok {
			t.Errorf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("exists check error", func(t *testing.T) {
		ms := &mockStore{indexErr: errors.New("down")}
		if _, err := EnsureIndex(context.Background(), ms, def); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSeeder_Batches(t *testing.T) {
	ms := &mockStore{}
	docs := make([]db.Document, 5)
	for i := range docs {
		docs[i] = db.Document{"i": i}
	}

	n, err := NewSeeder(ms, RedisLayout(), 2).Seed(context.Background(), docs)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 5 {
		t.Errorf("n = %d, want 5", n)
	}
	if len(ms.inserted) != 3 {
		t.Errorf("batches = %d, want 3", len(ms.inserted))
	}
	for _, target := range ms.targets {
		if target != RedisKeyPrefix {
			t.Errorf("target = %q", target)
		}
	}
}

func TestSeeder_Error(t *testing.T) {
	ms := &mockStore{insertErr: errors.New("write failed")}
	if _, err := NewSeeder(ms, CollectionLayout(""), 0).Seed(context.Background(), []db.Document{{}}); err == nil {
		t.Error("expected error")
	}
}
