package tracing

import (
	"context"
	"testing"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("expected a generated trace id")
	}
	if got := GetTraceID(ctx); got != id {
		t.Fatalf("GetTraceID = %q, want %q", got, id)
	}

	same, again := EnsureTraceID(ctx)
	if again != id || GetTraceID(same) != id {
		t.Fatalf("EnsureTraceID replaced existing id %q with %q", id, again)
	}
}

func TestSetTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background(), "abc")
	if got := GetTraceID(ctx); got != "abc" {
		t.Fatalf("GetTraceID = %q, want abc", got)
	}
	if got := GetTraceID(context.Background()); got != "" {
		t.Fatalf("GetTraceID on empty context = %q", got)
	}
}
