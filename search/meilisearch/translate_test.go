package meilisearch

import (
	"reflect"
	"testing"

	"github.com/ncobase/gqltable/query/grammar"
	"github.com/ncobase/gqltable/search"
	"github.com/ncobase/gqltable/types"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		sort   *types.SortSpec
		q      string
		filter any
		order  []string
	}{
		{name: "empty", query: ""},
		{
			name:   "alternatives and comparison",
			query:  `acme status:"open" status:"closed" amount:>=5`,
			sort:   &types.SortSpec{Field: "created", Direction: types.Ascending},
			q:      "acme",
			filter: `(status = "open" OR status = "closed") AND amount >= 5`,
			order:  []string{"created:asc"},
		},
		{
			name:   "range group",
			query:  `(created:>="2024-01-01T00:00:00.000Z" created:<="2024-01-31T23:59:59.999Z") paid:true`,
			filter: `(created >= "2024-01-01T00:00:00.000Z" AND created <= "2024-01-31T23:59:59.999Z") AND paid = true`,
		},
		{
			name:   "escaped quote",
			query:  `name:"say \"hi\""`,
			filter: `name = "say \"hi\""`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := grammar.Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			q, params := Translate(&search.Request{Expr: expr, Sort: tt.sort, From: 10, Size: 5})
			if q != tt.q {
				t.Errorf("q = %q, want %q", q, tt.q)
			}
			if !reflect.DeepEqual(params.Filter, tt.filter) {
				t.Errorf("filter = %#v, want %#v", params.Filter, tt.filter)
			}
			if !reflect.DeepEqual(params.Sort, tt.order) {
				t.Errorf("sort = %v, want %v", params.Sort, tt.order)
			}
			if params.Offset != 10 || params.Limit != 5 {
				t.Errorf("offset/limit = %d/%d", params.Offset, params.Limit)
			}
		})
	}
}
