package query

import "testing"

func TestFromRaw(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		kind  Kind
		label string
	}{
		{"string", "red", KindScalar, "red"},
		{"greater", ">5", KindComparison, ">5"},
		{"greater or equal", ">=2020-01-01", KindComparison, ">=2020-01-01"},
		{"less or equal", "<=3", KindComparison, "<=3"},
		{"number", float64(3), KindScalar, "3"},
		{"int", 7, KindScalar, "7"},
		{"bool", false, KindScalar, "false"},
		{"range", []any{"2024-01-01", "2024-01-02"}, KindRange, "2024-01-01 ~ 2024-01-02"},
		{"string range", []string{"2024-01-01", "2024-01-02"}, KindRange, "2024-01-01 ~ 2024-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromRaw(tt.raw)
			if err != nil {
				t.Fatalf("FromRaw: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", v.Kind(), tt.kind)
			}
			if v.Label() != tt.label {
				t.Errorf("label = %q, want %q", v.Label(), tt.label)
			}
		})
	}
}

func TestFromRaw_OpenRange(t *testing.T) {
	v, err := FromRaw([]any{"2024-01-01"})
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if _, _, ok := v.Bounds(); ok {
		t.Fatal("a single bound must not form a complete range")
	}
}

func TestFromRaw_Unsupported(t *testing.T) {
	if _, err := FromRaw(map[string]any{}); err == nil {
		t.Fatal("expected an error for an object value")
	}
	if _, err := FromRaw([]any{1, 2}); err == nil {
		t.Fatal("expected an error for numeric range bounds")
	}
}

func TestUndecorated(t *testing.T) {
	v := Compare(OpGte, "18")
	if got := v.Undecorated(); got.Kind() != KindScalar || got.Operand() != "18" {
		t.Fatalf("Undecorated() = %v", got.Label())
	}
}

func TestRange_EmptyEndIsOpen(t *testing.T) {
	v := Range("2024-01-01", "")
	if !v.Equal(OpenRange("2024-01-01")) {
		t.Fatal("Range with an empty end must equal OpenRange")
	}

	f := NewFilters()
	f.Set("createdAt", v)
	data, err := f.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Filters
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if !back.Equal(f) {
		t.Fatalf("round trip of %s changed the value", data)
	}
}
