package grammar

import (
	"errors"
	"testing"
	"time"

	"github.com/ncobase/gqltable/query"
)

func TestParse_SerializerOutput(t *testing.T) {
	f := query.NewFilters()
	f.Set("tags", query.String("red"), query.String("dark blue"))
	f.Set("age", query.Compare(query.OpGte, "18"))
	f.Set("createdAt", query.Range("2024-01-01", "2024-01-03"))

	q, _ := query.NewSerializer(query.WithLocation(time.UTC)).Serialize(f, "hello world", "")

	e, err := Parse(q)
	if err != nil {
		t.Fatalf("Parse(%q): %v", q, err)
	}
	if e.FreeText() != "hello world" {
		t.Errorf("free text = %q", e.FreeText())
	}

	fields := e.Fields()
	want := []string{"tags", "age", "createdAt"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("fields = %v, want %v", fields, want)
		}
	}

	tags := e.Terms("tags")
	if len(tags) != 2 || tags[1].Clauses[0].Value != "dark blue" || !tags[1].Clauses[0].Quoted {
		t.Errorf("tags = %+v", tags)
	}

	age := e.Terms("age")[0].Clauses[0]
	if age.Op != Gte || age.Value != "18" || !age.Numeric() {
		t.Errorf("age = %+v", age)
	}

	rng := e.Terms("createdAt")
	if len(rng) != 1 || len(rng[0].Clauses) != 2 {
		t.Fatalf("createdAt = %+v", rng)
	}
	if rng[0].Clauses[0].Op != Gte || rng[0].Clauses[1].Op != Lte {
		t.Errorf("range ops = %s %s", rng[0].Clauses[0].Op, rng[0].Clauses[1].Op)
	}
	if rng[0].Clauses[1].Value != "2024-01-03T23:59:59.999Z" {
		t.Errorf("range end = %q", rng[0].Clauses[1].Value)
	}
}

func TestParse_Literals(t *testing.T) {
	e, err := Parse(`active:true name:"C:\tmp\new" "exact phrase"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b, ok := e.Terms("active")[0].Clauses[0].Bool(); !ok || !b {
		t.Error("expected boolean true")
	}
	if v := e.Terms("name")[0].Clauses[0].Value; v != `C:\tmp\new` {
		t.Errorf("quoted value = %q", v)
	}
	if e.FreeText() != `"exact phrase"` {
		t.Errorf("free text = %q", e.FreeText())
	}
}

func TestParse_Empty(t *testing.T) {
	e, err := Parse("   ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !e.Empty() {
		t.Fatal("expected an empty expression")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{`name:"open`, ErrUnclosedQuote},
		{`(a:1 a:2`, ErrUnbalanced},
		{`a:1)`, ErrUnbalanced},
		{`((a:1))`, ErrUnbalanced},
		{`a: b`, ErrEmptyValue},
	}
	for _, tt := range tests {
		_, err := Parse(tt.in)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.in, err, tt.want)
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want it to wrap ErrSyntax", tt.in, err)
		}
	}
}

func TestParse_BackslashesRoundTrip(t *testing.T) {
	f := query.NewFilters()
	f.Set("path", query.String(`C:\tmp`), query.String(`D:\`))

	q, _ := query.NewSerializer().Serialize(f, "", "")
	e, err := Parse(q)
	if err != nil {
		t.Fatalf("Parse(%q): %v", q, err)
	}
	terms := e.Terms("path")
	if len(terms) != 2 {
		t.Fatalf("terms = %+v", terms)
	}
	if v := terms[0].Clauses[0].Value; v != `C:\tmp` {
		t.Errorf("Parse(%q) value = %q, want %q", q, v, `C:\tmp`)
	}
	if v := terms[1].Clauses[0].Value; v != `D:\` {
		t.Errorf("Parse(%q) value = %q, want %q", q, v, `D:\`)
	}
}
