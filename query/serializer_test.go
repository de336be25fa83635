package query

import (
	"testing"
	"time"

	"github.com/ncobase/gqltable/types"
)

func filtersOf(key string, values ...Value) Filters {
	f := NewFilters()
	f.Set(key, values...)
	return f
}

func TestSerialize_Clauses(t *testing.T) {
	s := NewSerializer(WithLocation(time.UTC))

	tests := []struct {
		name    string
		filters Filters
		text    string
		want    string
	}{
		{"quoted string", filtersOf("tags", String("red")), "", `tags:"red"`},
		{"numeric string", filtersOf("age", String("42")), "", `age:42`},
		{"signed decimal", filtersOf("score", String("-1.5")), "", `score:-1.5`},
		{"number", filtersOf("age", Number(42)), "", `age:42`},
		{"bool", filtersOf("active", Bool(true)), "", `active:true`},
		{"comparison numeric", filtersOf("age", Compare(OpGt, "5")), "", `age:>5`},
		{"comparison string", filtersOf("day", Compare(OpLt, "2020-01-01")), "", `day:<"2020-01-01"`},
		{"comparison gte", filtersOf("age", Compare(OpGte, "18")), "", `age:>=18`},
		{"multi value", filtersOf("tags", String("red"), String("blue")), "", `tags:"red" tags:"blue"`},
		{"free text only", NewFilters(), "  hello world ", `hello world`},
		{"free text and filters", filtersOf("tags", String("red")), " hello ", `hello tags:"red"`},
		{
			"date range",
			filtersOf("createdAt", Range("2024-01-01", "2024-01-03")), "",
			`(createdAt:>="2024-01-01T00:00:00.000Z" createdAt:<="2024-01-03T23:59:59.999Z")`,
		},
		{
			"date time range ignores time of day",
			filtersOf("createdAt", Range("2024-01-01 10:30:00", "2024-01-03 08:00:00")), "",
			`(createdAt:>="2024-01-01T00:00:00.000Z" createdAt:<="2024-01-03T23:59:59.999Z")`,
		},
		{"open range", filtersOf("createdAt", OpenRange("2024-01-01")), "", ``},
		{"unparseable range", filtersOf("createdAt", Range("yesterday", "today")), "", ``},
		{"empty", NewFilters(), "", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := s.Serialize(tt.filters, tt.text, "")
			if got != tt.want {
				t.Fatalf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerialize_InsertionOrder(t *testing.T) {
	f := NewFilters()
	f.Set("zeta", String("z"))
	f.Set("alpha", String("1"))
	f.Set("mid", Bool(false))

	got, _ := NewSerializer().Serialize(f, "", "")
	want := `zeta:"z" alpha:1 mid:false`
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerialize_Timezone(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	s := NewSerializer(WithLocation(shanghai))

	got, _ := s.Serialize(filtersOf("createdAt", Range("2024-01-01", "2024-01-03")), "", "")
	want := `(createdAt:>="2023-12-31T16:00:00.000Z" createdAt:<="2024-01-03T15:59:59.999Z")`
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerialize_Sort(t *testing.T) {
	s := NewSerializer()

	tests := []struct {
		sort string
		want *types.SortSpec
	}{
		{"createdAt DESC", &types.SortSpec{Field: "createdAt", Direction: types.Descending}},
		{"name ASC", &types.SortSpec{Field: "name", Direction: types.Ascending}},
		{"", nil},
		{"name", nil},
		{"name ASC extra", nil},
		{"name  ASC", nil},
		{"name sideways", nil},
	}

	for _, tt := range tests {
		_, got := s.Serialize(NewFilters(), "", tt.sort)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("sort %q: expected no orderBy, got %+v", tt.sort, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("sort %q: got %v, want %+v", tt.sort, got, *tt.want)
		}
	}
}

func TestVariables_OmitsEmptyKeys(t *testing.T) {
	s := NewSerializer()
	base := Variables{Query: "stale", OrderBy: &types.SortSpec{Field: "x", Direction: types.Ascending}, First: 10}

	got := s.Variables(base, NewFilters(), "", "broken")
	if got.Query != "" {
		t.Errorf("expected query to be omitted, got %q", got.Query)
	}
	if got.OrderBy != nil {
		t.Errorf("expected orderBy to be omitted, got %+v", got.OrderBy)
	}
	if got.First != 10 {
		t.Errorf("expected base keys to survive, got first=%d", got.First)
	}
	if base.Query != "stale" {
		t.Errorf("base must not be mutated, got %q", base.Query)
	}
}
