package meilisearch

import (
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/gqltable/query/grammar"
	"github.com/ncobase/gqltable/search"
)

// Translate maps a request onto the Meilisearch query text and search
// parameters. Alternatives of one field are ORed, fields are ANDed.
func Translate(req *search.Request) (string, *meilisearch.SearchRequest) {
	params := &meilisearch.SearchRequest{
		Offset:           int64(req.From),
		Limit:            int64(req.Size),
		ShowRankingScore: true,
	}
	if req.Sort != nil && req.Sort.Field != "" {
		params.Sort = []string{req.Sort.Field + ":" + strings.ToLower(string(req.Sort.Direction))}
	}
	if req.Expr == nil {
		return "", params
	}

	var groups []string
	for _, field := range req.Expr.Fields() {
		terms := req.Expr.Terms(field)
		alts := make([]string, 0, len(terms))
		for _, t := range terms {
			alts = append(alts, termFilter(t))
		}
		if len(alts) == 1 {
			groups = append(groups, alts[0])
			continue
		}
		groups = append(groups, "("+strings.Join(alts, " OR ")+")")
	}
	if len(groups) > 0 {
		params.Filter = strings.Join(groups, " AND ")
	}
	return req.Expr.FreeText(), params
}

func termFilter(t grammar.Term) string {
	if len(t.Clauses) == 1 {
		return clauseFilter(t.Clauses[0])
	}
	parts := make([]string, 0, len(t.Clauses))
	for _, c := range t.Clauses {
		parts = append(parts, clauseFilter(c))
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

func clauseFilter(c grammar.Clause) string {
	op := "="
	if c.Op != grammar.Eq {
		op = string(c.Op)
	}
	return c.Field + " " + op + " " + literal(c)
}

func literal(c grammar.Clause) string {
	if _, ok := c.Bool(); ok {
		return c.Value
	}
	if c.Numeric() {
		return c.Value
	}
	return `"` + strings.ReplaceAll(c.Value, `"`, `\"`) + `"`
}
