// Package grammar parses the query grammar produced by the serializer back into
// clauses, for backends that cannot consume the query string verbatim.
//
// Clauses on the same field are alternatives (OR); different fields must all
// match (AND). A parenthesised group is a conjunction, used for date ranges.
package grammar

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ncobase/gqltable/query"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("query syntax")

var (
	ErrUnclosedQuote = fmt.Errorf("%w: unclosed quoted value", ErrSyntax)
	ErrUnbalanced    = fmt.Errorf("%w: unbalanced parentheses", ErrSyntax)
	ErrEmptyValue    = fmt.Errorf("%w: field without value", ErrSyntax)
)

// Op is the comparison applied by a clause.
type Op string

const (
	Eq  Op = ":"
	Gt  Op = ">"
	Gte Op = ">="
	Lt  Op = "<"
	Lte Op = "<="
)

// Clause is a single field:value comparison.
type Clause struct {
	Field  string
	Op     Op
	Value  string
	Quoted bool
}

// Numeric reports whether the value was written unquoted and looks like a number.
func (c Clause) Numeric() bool {
	return !c.Quoted && query.IsNumeric(c.Value)
}

// Bool reports whether the value is an unquoted boolean literal.
func (c Clause) Bool() (bool, bool) {
	if c.Quoted {
		return false, false
	}
	switch c.Value {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Term is one alternative for a field: a single clause or a parenthesised conjunction.
type Term struct {
	Clauses []Clause
}

// Expr is a parsed query.
type Expr struct {
	Text   []string
	fields []string
	terms  map[string][]Term
}

// FreeText returns the free text words joined by spaces.
func (e *Expr) FreeText() string {
	return strings.Join(e.Text, " ")
}

// Fields returns the filtered fields in order of first appearance.
func (e *Expr) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Terms returns the alternatives of a field.
func (e *Expr) Terms(field string) []Term {
	return e.terms[field]
}

// Empty reports whether the query had neither text nor clauses.
func (e *Expr) Empty() bool {
	return len(e.Text) == 0 && len(e.fields) == 0
}

func (e *Expr) add(t Term) {
	if len(t.Clauses) == 0 {
		return
	}
	field := t.Clauses[0].Field
	if _, ok := e.terms[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.terms[field] = append(e.terms[field], t)
}

// Parse parses a query string. An empty string yields an empty expression.
func Parse(q string) (*Expr, error) {
	p := &parser{src: []rune(q)}
	e := &Expr{terms: map[string][]Term{}}

	var group *Term
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		switch ch := p.peek(); ch {
		case '(':
			if group != nil {
				return nil, fmt.Errorf("%w: nested group at %d", ErrUnbalanced, p.pos)
			}
			p.pos++
			group = &Term{}
			continue
		case ')':
			if group == nil {
				return nil, fmt.Errorf("%w: unexpected ')' at %d", ErrUnbalanced, p.pos)
			}
			p.pos++
			e.add(*group)
			group = nil
			continue
		case '"':
			text, err := p.quoted()
			if err != nil {
				return nil, err
			}
			e.Text = append(e.Text, `"`+text+`"`)
			continue
		}

		c, isClause, word, err := p.clauseOrWord()
		if err != nil {
			return nil, err
		}
		switch {
		case !isClause:
			e.Text = append(e.Text, word)
		case group != nil:
			group.Clauses = append(group.Clauses, c)
		default:
			e.add(Term{Clauses: []Clause{c}})
		}
	}
	if group != nil {
		return nil, fmt.Errorf("%w: missing ')'", ErrUnbalanced)
	}
	return e, nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) eof() bool  { return p.pos >= len(p.src) }
func (p *parser) peek() rune { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')'
}

// clauseOrWord reads either field:value or a bare free text word.
func (p *parser) clauseOrWord() (Clause, bool, string, error) {
	start := p.pos
	for !p.eof() && !isDelimiter(p.peek()) && p.peek() != ':' {
		p.pos++
	}
	if p.eof() || p.peek() != ':' || p.pos == start {
		for !p.eof() && !isDelimiter(p.peek()) {
			p.pos++
		}
		return Clause{}, false, string(p.src[start:p.pos]), nil
	}

	c := Clause{Field: string(p.src[start:p.pos]), Op: Eq}
	p.pos++ // ':'
	c.Op = p.operator()

	if p.eof() || isDelimiter(p.peek()) {
		return Clause{}, false, "", fmt.Errorf("%w: %s", ErrEmptyValue, c.Field)
	}
	if p.peek() == '"' {
		v, err := p.quoted()
		if err != nil {
			return Clause{}, false, "", err
		}
		c.Value, c.Quoted = v, true
		return c, true, "", nil
	}
	vs := p.pos
	for !p.eof() && !isDelimiter(p.peek()) {
		p.pos++
	}
	c.Value = string(p.src[vs:p.pos])
	return c, true, "", nil
}

func (p *parser) operator() Op {
	rest := string(p.src[p.pos:min(p.pos+2, len(p.src))])
	switch {
	case strings.HasPrefix(rest, ">="):
		p.pos += 2
		return Gte
	case strings.HasPrefix(rest, "<="):
		p.pos += 2
		return Lte
	case strings.HasPrefix(rest, ">"):
		p.pos++
		return Gt
	case strings.HasPrefix(rest, "<"):
		p.pos++
		return Lt
	}
	return Eq
}

// quoted reads a double-quoted value starting at the opening quote. The value
// is taken literally up to the closing quote, as the serializer does not escape.
func (p *parser) quoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	for i := p.pos; i < len(p.src); i++ {
		if p.src[i] == '"' {
			v := string(p.src[p.pos:i])
			p.pos = i + 1
			return v, nil
		}
	}
	p.pos = len(p.src)
	return "", fmt.Errorf("%w at %d", ErrUnclosedQuote, start)
}
