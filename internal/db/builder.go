package db

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts an index over JSON documents whose keys start with one of prefixes.
func NewIndex(name string, prefixes ...string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, Prefixes: prefixes}}
}

// Number indexes the JSONPath path as a numeric attribute named alias.
func (b *IndexBuilder) Number(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexNumeric})
}

// Tag indexes the JSONPath path as a tag attribute named alias.
func (b *IndexBuilder) Tag(path, alias string, caseSensitive bool) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexTag, CaseSensitive: caseSensitive})
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Sortable marks the last added field SORTABLE.
func (b *IndexBuilder) Sortable() *IndexBuilder {
	if n := len(b.def.Fields); n > 0 {
		b.def.Fields[n-1].Sortable = true
	}
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}
