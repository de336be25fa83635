package query

import (
	"strings"
	"time"

	"github.com/ncobase/gqltable/types"
)

// isoLayout matches the millisecond UTC form produced by JavaScript's toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// Variables is the payload handed to the fetch collaborator.
type Variables struct {
	Query   string          `json:"query,omitempty"`
	OrderBy *types.SortSpec `json:"orderBy,omitempty"`
	After   string          `json:"after,omitempty"`
	Before  string          `json:"before,omitempty"`
	First   int             `json:"first,omitempty"`
	Last    int             `json:"last,omitempty"`
}

// Clone returns a copy that shares nothing with v.
func (v Variables) Clone() Variables {
	out := v
	if v.OrderBy != nil {
		sort := *v.OrderBy
		out.OrderBy = &sort
	}
	return out
}

// Serializer turns filter state into the backend query grammar.
type Serializer struct {
	loc *time.Location
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLocation sets the timezone used to compute day boundaries of date ranges.
func WithLocation(loc *time.Location) Option {
	return func(s *Serializer) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewSerializer creates a serializer using the local timezone unless configured otherwise.
func NewSerializer(opts ...Option) *Serializer {
	s := &Serializer{loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the timezone used for date ranges.
func (s *Serializer) Location() *time.Location { return s.loc }

// Serialize builds the query string and the optional sort object.
//
// Clauses are emitted per column, per value, in insertion order and joined by
// single spaces; the trimmed free text leads when present. The sort selector
// must be "field DIRECTION"; anything else yields a nil orderBy.
func (s *Serializer) Serialize(filters Filters, freeText, sort string) (string, *types.SortSpec) {
	clauses := make([]string, 0, filters.Len())
	filters.Range(func(field string, values []Value) bool {
		for _, v := range values {
			if clause := s.clause(field, v); clause != "" {
				clauses = append(clauses, clause)
			}
		}
		return true
	})

	q := strings.Join(clauses, " ")
	if text := strings.TrimSpace(freeText); text != "" {
		if q != "" {
			q = text + " " + q
		} else {
			q = text
		}
	}

	orderBy, _ := types.ParseSort(sort)
	return strings.TrimSpace(q), orderBy
}

// Variables merges the serialized state into a copy of base. An empty query
// removes the query key and a malformed sort removes orderBy.
func (s *Serializer) Variables(base Variables, filters Filters, freeText, sort string) Variables {
	out := base.Clone()
	out.Query, out.OrderBy = s.Serialize(filters, freeText, sort)
	return out
}

func (s *Serializer) clause(field string, v Value) string {
	switch v.Kind() {
	case KindRange:
		return s.rangeClause(field, v)
	case KindComparison:
		return field + ":" + string(v.Operator()) + quote(v.Operand())
	}
	if str, ok := v.Scalar().(string); ok {
		return field + ":" + quote(str)
	}
	return field + ":" + v.Operand()
}

func (s *Serializer) rangeClause(field string, v Value) string {
	start, end, ok := v.Bounds()
	if !ok {
		return ""
	}
	from, err := s.parseDate(start)
	if err != nil {
		return ""
	}
	to, err := s.parseDate(end)
	if err != nil {
		return ""
	}
	return "(" + field + `:>="` + StartOfDay(from).UTC().Format(isoLayout) + `" ` +
		field + `:<="` + EndOfDay(to).UTC().Format(isoLayout) + `")`
}

// parseDate reads a widget date string in the serializer's timezone.
func (s *Serializer) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(s.loc), nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, s.loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func quote(s string) string {
	if IsNumeric(s) {
		return s
	}
	return `"` + s + `"`
}
