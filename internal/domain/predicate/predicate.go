// Package predicate holds the compiled, store-agnostic predicate tree.
//
// Paths in the tree are already in the record store's native addressing,
// resolved through the schema whitelist at compile time. Stores render the
// tree into their own query language; Match evaluates it in process.
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nlquery/internal/domain/query"
)

// Op is a leaf comparison operator.
type Op string

// Comparison operators.
const (
	Eq  Op = "eq"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
)

var opSymbols = map[Op]string{Eq: "=", Gt: ">", Gte: ">=", Lt: "<", Lte: "<="}

// Node is a predicate tree node: And, Or, Compare, In or MatchAny.
type Node interface {
	fmt.Stringer
	node()
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Children []Node
}

// Or matches when any child matches.
type Or struct {
	Children []Node
}

// Compare compares the value at Path with a float64 or string.
type Compare struct {
	Path  string
	Op    Op
	Value any
}

// In matches when the value at Path equals one of Values.
type In struct {
	Path   string
	Values []any
}

// MatchAny matches when the value at Path equals, case-insensitively, any of
// the spellings of one canonical class.
type MatchAny struct {
	Path      string
	Canonical string
	Spellings []string
}

func (And) node()      {}
func (Or) node()       {}
func (Compare) node()  {}
func (In) node()       {}
func (MatchAny) node() {}

func (n And) String() string {
	if len(n.Children) == 0 {
		return "TRUE"
	}
	return joinNodes(n.Children, " AND ")
}

func (n Or) String() string {
	if len(n.Children) == 0 {
		return "FALSE"
	}
	return joinNodes(n.Children, " OR ")
}

func (n Compare) String() string {
	return fmt.Sprintf("%s %s %s", n.Path, opSymbols[n.Op], formatScalar(n.Value))
}

func (n In) String() string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = formatScalar(v)
	}
	return fmt.Sprintf("%s IN [%s]", n.Path, strings.Join(parts, ", "))
}

func (n MatchAny) String() string {
	parts := make([]string, len(n.Spellings))
	for i, s := range n.Spellings {
		parts[i] = strconv.Quote(s)
	}
	return fmt.Sprintf("%s MATCHES [%s]", n.Path, strings.Join(parts, ", "))
}

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, c := range nodes {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return strconv.Quote(t)
	}
	return fmt.Sprint(v)
}

// Sort is a sort directive.
type Sort struct {
	Field string
	Path  string
	Order query.SortOrder
}

// Descending reports whether the order is descending.
func (s Sort) Descending() bool { return s.Order != query.Ascending }

// Directives ride alongside the tree: they are not part of it.
type Directives struct {
	Sort  *Sort
	Limit int
}

// Compiled is an immutable predicate tree plus directives.
type Compiled struct {
	root       And
	directives Directives
}

// Root returns the top-level conjunction.
func (c Compiled) Root() And { return c.root }

// Directives returns the sort and limit directives.
func (c Compiled) Directives() Directives {
	d := c.directives
	if d.Sort != nil {
		s := *d.Sort
		d.Sort = &s
	}
	return d
}

// CapLimit returns a copy whose limit is at most n.
func (c Compiled) CapLimit(n int) Compiled {
	if n > 0 && n < c.directives.Limit {
		c.directives.Limit = n
	}
	return c
}

func (c Compiled) String() string {
	var b strings.Builder
	b.WriteString("WHERE ")
	b.WriteString(c.root.String())
	if s := c.directives.Sort; s != nil {
		fmt.Fprintf(&b, " SORT BY %s %s", s.Path, strings.ToUpper(string(s.Order)))
	}
	fmt.Fprintf(&b, " LIMIT %d", c.directives.Limit)
	return b.String()
}
