// Package query holds the query lifecycle types: the untrusted Draft, the
// whitelisted Validated query, and the caller's Request.
package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/nlquery/internal/domain"
)

// Request text bounds.
const (
	MinTextLength = 3
	MaxTextLength = 500
)

// Request is one incoming free-text query.
type Request struct {
	text  string
	limit int
}

// NewRequest validates the raw request. A zero limit means DefaultLimit.
func NewRequest(text string, limit int) (Request, error) {
	if limit == 0 {
		return RequestWithLimit(text, nil)
	}
	return RequestWithLimit(text, &limit)
}

// RequestWithLimit validates a request whose limit may be absent. A nil limit
// means DefaultLimit; a present limit, zero included, must be within
// MinLimit..MaxLimit.
func RequestWithLimit(text string, limit *int) (Request, error) {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n < MinTextLength {
		return Request{}, fmt.Errorf("%w: query text too short (min %d chars)", domain.ErrInvalidInput, MinTextLength)
	}
	if n > MaxTextLength {
		return Request{}, fmt.Errorf("%w: query text too long (max %d chars)", domain.ErrInvalidInput, MaxTextLength)
	}
	if limit == nil {
		return Request{text: text, limit: DefaultLimit}, nil
	}
	if *limit < MinLimit || *limit > MaxLimit {
		return Request{}, fmt.Errorf("%w: limit must be between %d and %d", domain.ErrInvalidInput, MinLimit, MaxLimit)
	}
	return Request{text: text, limit: *limit}, nil
}

// Text returns the trimmed query text.
func (r Request) Text() string { return r.text }

// Limit returns the caller's requested upper bound on results.
func (r Request) Limit() int { return r.limit }

// FoldText is the identity of query text for caching and request coalescing:
// trimmed, inner whitespace collapsed, lower case.
func FoldText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
