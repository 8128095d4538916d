package db

import "github.com/kailas-cloud/nlquery/internal/domain/predicate"

// Document is a stored record with nested documents as map[string]any.
// Numbers are float64, int32, int64 or json.Number depending on the driver.
type Document map[string]any

// FindQuery is the input for a predicate search.
type FindQuery struct {
	// Collection is the FT index (Redis) or collection (MongoDB) name.
	Collection string
	Filter     predicate.And
	Sort       *predicate.Sort
	Limit      int
	// Fields is the dotted-path inclusion projection. Empty returns whole documents.
	Fields []string
}
