package db

import (
	"slices"
	"strings"
	"testing"
)

func TestIndexBuilder_StudentFields(t *testing.T) {
	idx, err := NewIndex("nlq:students:idx", "nlq:student:").
		Number("$.scores.coding", "scores_coding").Sortable().
		Tag("$.year", "year", false).
		Tag("$.name", "name", true).Sortable().
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(idx.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(idx.Fields))
	}
	if f := idx.Fields[0]; f.Type != IndexNumeric || !f.Sortable || f.Alias != "scores_coding" {
		t.Errorf("field[0] = %+v", f)
	}
	if f := idx.Fields[1]; f.Sortable || f.CaseSensitive {
		t.Errorf("field[1] = %+v, flags leaked from neighbours", f)
	}
	if f := idx.Fields[2]; f.Type != IndexTag || !f.CaseSensitive || !f.Sortable {
		t.Errorf("field[2] = %+v", f)
	}
}

func TestIndexBuilder_BuildCopies(t *testing.T) {
	b := NewIndex("idx", "k:").Number("$.cgpa", "cgpa")
	first, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	b.Number("$.prs_score", "prs_score")

	if len(first.Fields) != 1 {
		t.Errorf("earlier definition changed: %d fields", len(first.Fields))
	}
}

func TestIndexDefinition_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		def     IndexDefinition
		wantErr string
	}{
		{"empty name", IndexDefinition{Fields: []IndexField{{Path: "$.x", Alias: "x"}}}, "index name is required"},
		{"bad name", IndexDefinition{Name: "idx with spaces", Fields: []IndexField{{Path: "$.x", Alias: "x"}}}, "invalid characters"},
		{"no fields", IndexDefinition{Name: "idx"}, "at least one field"},
		{"not a json path", IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "cgpa", Alias: "cgpa"}}}, "must be a JSONPath"},
		{"missing alias", IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "$.cgpa"}}}, "invalid alias"},
		{"dotted alias", IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "$.a.b", Alias: "a.b"}}}, "invalid alias"},
		{
			"duplicate alias",
			IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "$.a.b", Alias: "a_b"}, {Path: "$.a_b", Alias: "a_b"}}},
			"duplicate alias",
		},
		{
			"case sensitive number",
			IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "$.cgpa", Alias: "cgpa", Type: IndexNumeric, CaseSensitive: true}}},
			"tags only",
		},
		{
			"unknown type",
			IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "$.cgpa", Alias: "cgpa", Type: IndexFieldType(9)}}},
			"unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_Args(t *testing.T) {
	idx, err := NewIndex("nlq:students:idx", "nlq:student:").
		Tag("$.branch", "branch", false).
		Tag("$.name", "name", true).
		Number("$.cgpa", "cgpa").Sortable().
		Build()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"nlq:students:idx", "ON", "JSON", "PREFIX", "1", "nlq:student:", "SCHEMA",
		"$.branch", "AS", "branch", "TAG",
		"$.name", "AS", "name", "TAG", "CASESENSITIVE",
		"$.cgpa", "AS", "cgpa", "NUMERIC", "SORTABLE",
	}
	if got := idx.Args(); !slices.Equal(got, want) {
		t.Errorf("Args() = %v\nwant %v", got, want)
	}
	if s := idx.String(); !strings.HasPrefix(s, "FT.CREATE nlq:students:idx ON JSON PREFIX 1 nlq:student: SCHEMA") {
		t.Errorf("String() = %q", s)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, s := range []string{"nlq:students:idx", "scores_coding", "a-b"} {
		if !IsValidIdentifier(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "a.b", "a b", "$.x"} {
		if IsValidIdentifier(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
