package chi

import (
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// SchemaResponse is the body of GET /admin/ai-query/schema.
type SchemaResponse struct {
	Fields  []SchemaField            `json:"fields"`
	Classes map[string][]SchemaClass `json:"classes"`
	Limits  SchemaLimits             `json:"limits"`
}

// SchemaField describes one queryable field.
type SchemaField struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Operators []string `json:"operators"`
}

// SchemaClass is one canonical value and its accepted spellings.
type SchemaClass struct {
	Canonical string   `json:"canonical"`
	Spellings []string `json:"spellings"`
}

// SchemaLimits are the accepted result limits.
type SchemaLimits struct {
	Default int `json:"default"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

func newSchemaResponse(w *schema.Whitelist, reg *canon.Registry) SchemaResponse {
	resp := SchemaResponse{
		Fields:  make([]SchemaField, 0, len(w.Names())),
		Classes: make(map[string][]SchemaClass),
		Limits:  SchemaLimits{Default: query.DefaultLimit, Min: query.MinLimit, Max: query.MaxLimit},
	}
	for _, e := range w.Entries() {
		ops := make([]string, len(e.Operators))
		for i, op := range e.Operators {
			ops[i] = string(op)
		}
		resp.Fields = append(resp.Fields, SchemaField{Name: e.Name, Type: string(e.Type), Operators: ops})
	}
	for _, dim := range reg.Dimensions() {
		for _, c := range reg.Classes(dim) {
			resp.Classes[dim] = append(resp.Classes[dim], SchemaClass{Canonical: c.Canonical, Spellings: c.Spellings})
		}
	}
	return resp
}
