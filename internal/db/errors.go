package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrIndexExists  = errors.New("db: index already exists")
	ErrInvalidQuery = errors.New("db: invalid query")
)

// Op names the failed store operation: Redis command names, MongoDB
// operations, or a local step.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpJSONSet     = "JSON.SET"
	OpPing        = "PING"
	OpFind        = "find"
	OpInsertMany  = "insertMany"
	OpDecode      = "decode"
)

// Error wraps a store failure with the operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
