package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
)

// Find renders the predicate to FT.SEARCH query syntax and returns matching
// JSON documents. Paths in the predicate must be index attribute aliases.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("%w: index name is required", db.ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", db.ErrInvalidQuery)
	}

	queryStr, err := renderQuery(q.Filter)
	if err != nil {
		return nil, err
	}

	args := []string{q.Collection, queryStr, "RETURN", "1", "$"}
	if q.Sort != nil {
		dir := "ASC"
		if q.Sort.Descending() {
			dir = "DESC"
		}
		args = append(args, "SORTBY", q.Sort.Path, dir)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(q.Limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res, err := parseListResult(raw)
	if err != nil {
		return nil, &db.Error{Op: db.OpDecode, Err: err}
	}

	docs := make([]db.Document, 0, len(res.Entries))
	for _, e := range res.Entries {
		doc, err := decodeDocument(e.Fields["$"])
		if err != nil {
			return nil, &db.Error{Op: db.OpDecode, Err: fmt.Errorf("key %s: %w", e.Key, err)}
		}
		if len(q.Fields) > 0 {
			doc = db.Document(record.Projection(q.Fields).Apply(record.Record(doc)))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeDocument(data string) (db.Document, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

// --- Result parsing ---

type searchEntry struct {
	Key    string
	Fields map[string]string
}

type searchResult struct {
	Total   int
	Entries []searchEntry
}

func parseListResult(raw []rueidis.RedisMessage) (*searchResult, error) {
	if len(raw) == 0 {
		return &searchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &searchResult{}, nil
	}

	entries := make([]searchEntry, 0, min(total, int64(len(raw)/2)))
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, searchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &searchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query rendering ---

// renderQuery translates the predicate tree into an FT.SEARCH query string.
// Terms separated by spaces intersect, "|" unions.
func renderQuery(root predicate.And) (string, error) {
	if len(root.Children) == 0 {
		return "*", nil
	}
	parts := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		p, err := renderNode(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " "), nil
}

func renderNode(n predicate.Node) (string, error) {
	switch t := n.(type) {
	case predicate.And:
		q, err := renderQuery(t)
		if err != nil {
			return "", err
		}
		return "(" + q + ")", nil

	case predicate.Or:
		if len(t.Children) == 0 {
			return "", fmt.Errorf("%w: empty disjunction", db.ErrInvalidQuery)
		}
		parts := make([]string, 0, len(t.Children))
		for _, c := range t.Children {
			p, err := renderNode(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, p)
		}
		return "(" + strings.Join(parts, " | ") + ")", nil

	case predicate.Compare:
		switch v := t.Value.(type) {
		case float64:
			return buildNumericFilter(t.Path, t.Op, v), nil
		case string:
			if t.Op != predicate.Eq {
				return "", fmt.Errorf("%w: operator %s on string %s", db.ErrInvalidQuery, t.Op, t.Path)
			}
			return buildTagFilter(t.Path, v), nil
		}
		return "", fmt.Errorf("%w: unsupported value %T for %s", db.ErrInvalidQuery, t.Value, t.Path)

	case predicate.In:
		return renderIn(t)

	case predicate.MatchAny:
		return buildTagFilter(t.Path, t.Spellings...), nil
	}
	return "", fmt.Errorf("%w: unsupported node %T", db.ErrInvalidQuery, n)
}

func renderIn(n predicate.In) (string, error) {
	if len(n.Values) == 0 {
		return "", fmt.Errorf("%w: empty membership list for %s", db.ErrInvalidQuery, n.Path)
	}
	var (
		numbers []string
		tags    []string
	)
	for _, v := range n.Values {
		switch t := v.(type) {
		case float64:
			numbers = append(numbers, buildNumericFilter(n.Path, predicate.Eq, t))
		case string:
			tags = append(tags, t)
		default:
			return "", fmt.Errorf("%w: unsupported value %T for %s", db.ErrInvalidQuery, v, n.Path)
		}
	}
	if len(tags) > 0 {
		if len(numbers) > 0 {
			return "", fmt.Errorf("%w: mixed membership list for %s", db.ErrInvalidQuery, n.Path)
		}
		return buildTagFilter(n.Path, tags...), nil
	}
	return "(" + strings.Join(numbers, " | ") + ")", nil
}

func buildTagFilter(key string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

func buildNumericFilter(key string, op predicate.Op, v float64) string {
	n := strconv.FormatFloat(v, 'f', -1, 64)
	minBound, maxBound := "-inf", "+inf"

	switch op {
	case predicate.Eq:
		minBound, maxBound = n, n
	case predicate.Gt:
		minBound = "(" + n
	case predicate.Gte:
		minBound = n
	case predicate.Lt:
		maxBound = "(" + n
	case predicate.Lte:
		maxBound = n
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
