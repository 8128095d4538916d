package schema

import (
	"slices"
	"testing"
)

func TestStudents_DotPath(t *testing.T) {
	w := Students(DotPath)
	e, ok := w.Lookup(FieldGithubScore)
	if !ok {
		t.Fatal("github_score not whitelisted")
	}
	if e.Type != Number {
		t.Errorf("Type = %q, want number", e.Type)
	}
	if got := w.Address(FieldGithubScore); got != "github_analysis.github_score" {
		t.Errorf("Address = %q", got)
	}
	if !e.Allows(OpGt) || !e.Allows(OpIn) {
		t.Errorf("number field operators = %v", e.Operators)
	}
}

func TestStudents_AttributeAlias(t *testing.T) {
	w := Students(AttributeAlias)
	if got := w.Address(FieldCodingScore); got != "scores_coding" {
		t.Errorf("Address = %q, want scores_coding", got)
	}
	if got := w.Address(FieldYear); got != "year" {
		t.Errorf("Address = %q, want year", got)
	}
}

func TestStudents_CategoryOperators(t *testing.T) {
	e, _ := Students(DotPath).Lookup(FieldBranch)
	if e.Allows(OpGt) {
		t.Error("category field must not allow gt")
	}
	if !e.Allows(OpEq) || !e.Allows(OpIn) {
		t.Errorf("Operators = %v", e.Operators)
	}
}

func TestStudents_NameEqualityOnly(t *testing.T) {
	e, ok := Students(DotPath).Lookup(FieldName)
	if !ok {
		t.Fatal("name not whitelisted")
	}
	if e.Type != String {
		t.Errorf("Type = %q, want string", e.Type)
	}
	if !e.Allows(OpEq) || !e.Allows(OpIn) || e.Allows(OpGt) {
		t.Errorf("name operators = %v, want eq and in only", e.Operators)
	}
}

func TestWhitelist_SensitiveFieldsAbsent(t *testing.T) {
	w := Students(DotPath)
	for _, name := range []string{"password", "email", "phone", "resume_text", "_id"} {
		if _, ok := w.Lookup(name); ok {
			t.Errorf("%q must not be whitelisted", name)
		}
	}
}

func TestNewWhitelist_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty name", []Entry{{Type: Number}}},
		{"bad type", []Entry{{Name: "x", Type: "blob"}}},
		{"duplicate", []Entry{{Name: "x", Type: Number}, {Name: "x", Type: String}}},
		{"unknown operator", []Entry{{Name: "x", Type: Number, Operators: []Operator{"like"}}}},
		{"ordering on string", []Entry{{Name: "x", Type: String, Operators: []Operator{OpGt}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWhitelist(DotPath, tt.entries...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWhitelist_Names(t *testing.T) {
	w := MustWhitelist(DotPath, Entry{Name: "b", Type: Number}, Entry{Name: "a", Type: String})
	if got := w.Names(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Names() = %v", got)
	}
	e, _ := w.Lookup("a")
	if e.Path != "a" {
		t.Errorf("default Path = %q, want a", e.Path)
	}
}
