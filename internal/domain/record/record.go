// Package record defines stored records and the fixed output projection.
package record

import (
	"maps"
	"strings"
)

// Record is a semi-structured stored document. Nested documents are
// map[string]any.
type Record map[string]any

// Get resolves a dotted path ("scores.coding").
func (r Record) Get(path string) (any, bool) {
	var cur any = map[string]any(r)
	for part := range strings.SplitSeq(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set assigns a value at a dotted path, creating intermediate documents.
func (r Record) Set(path string, v any) {
	parts := strings.Split(path, ".")
	m := map[string]any(r)
	for _, p := range parts[:len(parts)-1] {
		next, ok := asMap(m[p])
		if !ok {
			next = make(map[string]any)
		}
		m[p] = next
		m = next
	}
	m[parts[len(parts)-1]] = v
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return map[string]any(m), true
	}
	return nil, false
}

// Projection is an allow-list of dotted paths that may leave the service.
type Projection []string

// Students is the output projection for student records. Credentials,
// contact details and resume text are never returned.
var Students = Projection{
	"name",
	"branch",
	"year",
	"prs_score",
	"cgpa",
	"github_analysis.github_score",
	"scores",
}

// Apply returns a new record holding only allow-listed paths.
func (p Projection) Apply(r Record) Record {
	out := make(Record, len(p))
	for _, path := range p {
		v, ok := r.Get(path)
		if !ok {
			continue
		}
		out.Set(path, deepCopy(v))
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = deepCopy(val)
		}
		return m
	case Record:
		return deepCopy(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	}
	return v
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	maps.Copy(out, deepCopy(map[string]any(r)).(map[string]any))
	return out
}
