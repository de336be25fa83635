package ecode

import (
	"net/http"
	"testing"
)

func TestText(t *testing.T) {
	if got := Text(MalformedFilter); got != "Malformed filter payload" {
		t.Errorf("Text(MalformedFilter) = %q", got)
	}
	if got := Text(-9999); got != "" {
		t.Errorf("Text(unknown) = %q, want empty", got)
	}
	Register(-9999, "custom")
	if got := Text(-9999); got != "custom" {
		t.Errorf("Text(registered) = %q", got)
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := map[int]int{
		RequestErr:     http.StatusBadRequest,
		NothingFound:   http.StatusNotFound,
		NoSearchEngine: http.StatusServiceUnavailable,
		InvalidQuery:   http.StatusBadRequest,
		-12345:         http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := ToHTTPStatus(code); got != want {
			t.Errorf("ToHTTPStatus(%d) = %d, want %d", code, got, want)
		}
	}
}

func TestMessages(t *testing.T) {
	if got := FieldIsInvalid("filter"); got != "filter invalid" {
		t.Errorf("FieldIsInvalid = %q", got)
	}
	if got := NotExist("snapshot"); got != "snapshot does not exist" {
		t.Errorf("NotExist = %q", got)
	}
}
