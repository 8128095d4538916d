package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IndexFieldType enumerates the attribute types record indexes use.
type IndexFieldType int

const (
	// IndexNumeric supports range queries and numeric sort.
	IndexNumeric IndexFieldType = iota
	// IndexTag supports exact-match membership.
	IndexTag
)

func (t IndexFieldType) String() string {
	switch t {
	case IndexNumeric:
		return "NUMERIC"
	case IndexTag:
		return "TAG"
	default:
		return "IndexFieldType(" + strconv.Itoa(int(t)) + ")"
	}
}

// IndexField is one indexed attribute of a JSON document.
type IndexField struct {
	// Path is the JSONPath of the value, e.g. "$.scores.coding".
	Path string
	// Alias is the attribute name queries use, e.g. "scores_coding".
	Alias string
	Type  IndexFieldType
	// CaseSensitive applies to tags only.
	CaseSensitive bool
	Sortable      bool
}

// IndexDefinition is a search index over JSON documents stored under Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if !strings.HasPrefix(f.Path, "$.") {
			return fmt.Errorf("field %d: path %q must be a JSONPath starting with $.", i, f.Path)
		}
		if !IsValidIdentifier(f.Alias) {
			return fmt.Errorf("field %s: invalid alias %q", f.Path, f.Alias)
		}
		if seen[f.Alias] {
			return fmt.Errorf("duplicate alias %q", f.Alias)
		}
		seen[f.Alias] = true

		switch f.Type {
		case IndexNumeric:
			if f.CaseSensitive {
				return fmt.Errorf("field %s: case sensitivity applies to tags only", f.Alias)
			}
		case IndexTag:
		default:
			return fmt.Errorf("field %s: unknown type %s", f.Alias, f.Type)
		}
	}
	return nil
}

// Args renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) Args() []string {
	args := []string{idx.Name, "ON", "JSON"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		args = append(args, f.Path, "AS", f.Alias, f.Type.String())
		if f.CaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args
}

// String returns the FT.CREATE command line, for logs.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.Args(), " ")
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
