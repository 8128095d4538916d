package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Draft is the untrusted structured output of the translator. Its content is
// opaque to everything except Validate.
type Draft struct {
	raw any
}

// ParseDraft decodes a single JSON document. Numbers are kept as json.Number
// so integer limits can be told apart from fractional ones.
func ParseDraft(data []byte) (Draft, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Draft{}, errors.New("decode draft: trailing data after JSON document")
	}
	return Draft{raw: raw}, nil
}

// NewDraft wraps an already-decoded JSON value.
func NewDraft(raw any) Draft {
	return Draft{raw: raw}
}

// MarshalJSON re-encodes the draft as received, for logs and diagnostics.
func (d Draft) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(d.raw)
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	return b, nil
}
