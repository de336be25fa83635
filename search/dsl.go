package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncobase/gqltable/query/grammar"
)

// QueryDSL builds the Elasticsearch/OpenSearch request body of req.
//
// Free text becomes a query_string over fields. Alternatives of one field are
// grouped in a should clause; the groups of different fields are ANDed as
// filters.
func QueryDSL(req *Request) map[string]any {
	must := []any{}
	filters := []any{}

	if req.Expr != nil {
		if text := strings.TrimSpace(req.Expr.FreeText()); text != "" {
			fields := req.Fields
			if len(fields) == 0 {
				fields = []string{"*"}
			}
			must = append(must, map[string]any{
				"query_string": map[string]any{
					"query":            text,
					"fields":           fields,
					"default_operator": "AND",
				},
			})
		}
		for _, field := range req.Expr.Fields() {
			terms := req.Expr.Terms(field)
			should := make([]any, 0, len(terms))
			for _, t := range terms {
				should = append(should, termDSL(t))
			}
			if len(should) == 1 {
				filters = append(filters, should[0])
				continue
			}
			filters = append(filters, map[string]any{
				"bool": map[string]any{"should": should, "minimum_should_match": 1},
			})
		}
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	body := map[string]any{
		"from":             req.From,
		"size":             req.Size,
		"track_total_hits": true,
	}
	if len(boolQuery) == 0 {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	} else {
		body["query"] = map[string]any{"bool": boolQuery}
	}
	if req.Sort != nil && req.Sort.Field != "" {
		body["sort"] = []any{
			map[string]any{req.Sort.Field: map[string]any{"order": strings.ToLower(string(req.Sort.Direction))}},
		}
	}
	return body
}

func termDSL(t grammar.Term) any {
	if len(t.Clauses) == 1 {
		return clauseDSL(t.Clauses[0])
	}
	must := make([]any, 0, len(t.Clauses))
	for _, c := range t.Clauses {
		must = append(must, clauseDSL(c))
	}
	return map[string]any{"bool": map[string]any{"must": must}}
}

var rangeKeys = map[grammar.Op]string{
	grammar.Gt:  "gt",
	grammar.Gte: "gte",
	grammar.Lt:  "lt",
	grammar.Lte: "lte",
}

func clauseDSL(c grammar.Clause) any {
	if key, ok := rangeKeys[c.Op]; ok {
		return map[string]any{"range": map[string]any{c.Field: map[string]any{key: literal(c)}}}
	}
	if c.Quoted {
		return map[string]any{"match_phrase": map[string]any{c.Field: c.Value}}
	}
	return map[string]any{"term": map[string]any{c.Field: literal(c)}}
}

// literal returns the typed value of an unquoted clause.
func literal(c grammar.Clause) any {
	if b, ok := c.Bool(); ok {
		return b
	}
	if c.Numeric() {
		if f, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return f
		}
	}
	return c.Value
}

// BulkBody renders documents as a bulk index payload. A document's "id"
// field becomes its _id.
func BulkBody(documents []map[string]any) (string, error) {
	var b strings.Builder
	for _, doc := range documents {
		action := map[string]any{}
		if id, ok := doc["id"]; ok {
			action["_id"] = fmt.Sprint(id)
		}
		line, err := json.Marshal(map[string]any{"index": action})
		if err != nil {
			return "", err
		}
		b.Write(line)
		b.WriteByte('\n')

		data, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("error encoding document: %w", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
