package validator

import (
	"errors"
	"testing"
)

type sample struct {
	Key      string `json:"key" validate:"required"`
	PageSize int    `json:"page_size" validate:"gte=1,lte=100"`
	Filter   string `json:"filter_type" validate:"oneof=input checkbox"`
	Sort     string `json:"sort" validate:"sortspec"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&sample{PageSize: 0, Filter: "slider", Sort: "name sideways"})

	want := map[string]string{
		"key":         "The field 'key' is required.",
		"page_size":   "The field 'page_size' must be greater than or equal to 1.",
		"filter_type": "The field 'filter_type' must be one of [input checkbox].",
		"sort":        "The field 'sort' must look like 'field ASC' or 'field DESC'.",
	}
	if len(errs) != len(want) {
		t.Fatalf("errors = %v", errs)
	}
	for k, msg := range want {
		if errs[k] != msg {
			t.Errorf("errs[%q] = %q, want %q", k, errs[k], msg)
		}
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	s := sample{Key: "status", PageSize: 10, Filter: "input", Sort: "createdAt DESC"}
	if errs := ValidateStruct(s); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if err := Validate(&s); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Lang(t *testing.T) {
	err := Validate(&sample{PageSize: 1, Filter: "input"}, "zh")
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("Validate err = %v", err)
	}
	if errs["key"] != "字段 'key' 为必填项。" {
		t.Errorf("message = %q", errs["key"])
	}
}
