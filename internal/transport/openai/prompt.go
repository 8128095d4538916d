package openai

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

var promptExamples = []struct{ text, draft string }{
	{
		"TY ECS students with github score above 60",
		`{"filters":[{"field":"year","operator":"eq","value":"TY"},{"field":"branch","operator":"eq","value":"ECS"},` +
			`{"field":"github_score","operator":"gt","value":60}],"sort_field":"github_score","sort_order":"desc","limit":50}`,
	},
	{
		"students with prs above 75 and coding score above 70",
		`{"filters":[{"field":"prs_score","operator":"gt","value":75},{"field":"coding_score","operator":"gt","value":70}],` +
			`"sort_field":"prs_score","sort_order":"desc","limit":50}`,
	},
	{
		"final year IT students with linkedin score below 40",
		`{"filters":[{"field":"year","operator":"eq","value":"FINAL"},{"field":"branch","operator":"eq","value":"IT"},` +
			`{"field":"linkedin_score","operator":"lt","value":40}],"sort_field":"linkedin_score","sort_order":"asc","limit":50}`,
	},
}

// BuildPrompt renders the system prompt from the whitelist and registry so
// the model only ever sees fields and codes the validator accepts.
func BuildPrompt(w *schema.Whitelist, reg *canon.Registry) string {
	var b strings.Builder

	b.WriteString("You are an assistant that converts admin requests into structured database filters.\n")
	b.WriteString("Output must be valid JSON ONLY.\n")
	b.WriteString("Never output database operators directly.\n")
	b.WriteString("Never output text outside JSON.\n")
	b.WriteString("Only use allowed fields and operators.\n\n")

	b.WriteString("Allowed fields:\n")
	for _, e := range w.Entries() {
		ops := make([]string, len(e.Operators))
		for i, op := range e.Operators {
			ops[i] = string(op)
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", e.Name, e.Type, strings.Join(ops, ", "))
	}
	b.WriteString("\n")

	for _, dim := range reg.Dimensions() {
		if _, ok := w.Lookup(dim); !ok {
			continue
		}
		fmt.Fprintf(&b, "%s values use short codes: %s\n", dim, describeClasses(reg.Classes(dim)))
	}

	b.WriteString(`
Output schema (strict):
{
  "filters": [
    { "field": "<allowed_field>", "operator": "<allowed_operator>", "value": <string|number|array> }
  ],
  "sort_field": "<allowed_field or null>",
  "sort_order": "asc or desc",
  "limit": <integer 1-200>
}

Examples:
`)
	for _, ex := range promptExamples {
		fmt.Fprintf(&b, "- %q\n  -> %s\n", ex.text, ex.draft)
	}
	return b.String()
}

func describeClasses(classes []canon.Class) string {
	parts := make([]string, len(classes))
	for i, c := range classes {
		if name := longestSpelling(c); name != c.Canonical {
			parts[i] = fmt.Sprintf("%s (%s)", c.Canonical, name)
			continue
		}
		parts[i] = c.Canonical
	}
	return strings.Join(parts, ", ")
}

func longestSpelling(c canon.Class) string {
	best := c.Canonical
	for _, s := range c.Spellings {
		if len(s) > len(best) {
			best = s
		}
	}
	return best
}
