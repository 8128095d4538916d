package record

import (
	"testing"
)

func student() Record {
	return Record{
		"name":      "Asha",
		"branch":    "ECS",
		"year":      "TY",
		"cgpa":      8.7,
		"prs_score": 71.0,
		"password":  "hunter2",
		"email":     "asha@example.com",
		"github_analysis": map[string]any{
			"github_score": 64.0,
			"token":        "ghp_secret",
		},
		"scores": map[string]any{"coding": 80.0, "resume": 55.0},
	}
}

func TestRecord_Get(t *testing.T) {
	r := student()
	v, ok := r.Get("github_analysis.github_score")
	if !ok || v != 64.0 {
		t.Errorf("Get = %v, %v", v, ok)
	}
	if _, ok := r.Get("github_analysis.missing"); ok {
		t.Error("missing path resolved")
	}
	if _, ok := r.Get("name.first"); ok {
		t.Error("path through a scalar resolved")
	}
}

func TestRecord_Set(t *testing.T) {
	r := Record{}
	r.Set("scores.coding", 90.0)
	r.Set("scores.resume", 40.0)
	if v, _ := r.Get("scores.coding"); v != 90.0 {
		t.Errorf("scores.coding = %v", v)
	}
	if v, _ := r.Get("scores.resume"); v != 40.0 {
		t.Errorf("scores.resume = %v", v)
	}
}

func TestProjection_Apply(t *testing.T) {
	out := Students.Apply(student())

	for _, banned := range []string{"password", "email", "github_analysis.token"} {
		if _, ok := out.Get(banned); ok {
			t.Errorf("%s leaked through projection", banned)
		}
	}
	for _, kept := range []string{"name", "branch", "year", "cgpa", "prs_score", "github_analysis.github_score", "scores.coding"} {
		if _, ok := out.Get(kept); !ok {
			t.Errorf("%s missing from projection", kept)
		}
	}
}

func TestProjection_ApplyCopies(t *testing.T) {
	in := student()
	out := Students.Apply(in)
	out["scores"].(map[string]any)["coding"] = 0.0
	if v, _ := in.Get("scores.coding"); v != 80.0 {
		t.Errorf("source mutated: scores.coding = %v", v)
	}
}

func TestProjection_ApplyMissingFields(t *testing.T) {
	out := Students.Apply(Record{"name": "Ravi", "phone": "123"})
	if len(out) != 1 || out["name"] != "Ravi" {
		t.Errorf("Apply = %v", out)
	}
}
