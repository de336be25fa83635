package types

import "testing"

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want *SortSpec
	}{
		{"created DESC", &SortSpec{Field: "created", Direction: Descending}},
		{"name ASC", &SortSpec{Field: "name", Direction: Ascending}},
		{"", nil},
		{"name", nil},
		{"name asc", nil},
		{"name  ASC", nil},
		{" ASC", nil},
		{"a b ASC", nil},
	}
	for _, tt := range tests {
		got, ok := ParseSort(tt.in)
		if (tt.want == nil) != !ok {
			t.Errorf("ParseSort(%q) ok = %v", tt.in, ok)
			continue
		}
		if tt.want != nil && *got != *tt.want {
			t.Errorf("ParseSort(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestJoinSort(t *testing.T) {
	if got := JoinSort("created", "DESC"); got != "created DESC" {
		t.Errorf("JoinSort = %q", got)
	}
	if got := JoinSort("created", ""); got != "" {
		t.Errorf("JoinSort without direction = %q", got)
	}
	if got := (SortSpec{Field: "a", Direction: Ascending}).String(); got != "a ASC" {
		t.Errorf("String = %q", got)
	}
}
