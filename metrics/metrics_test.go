package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SearchQuery("opensearch", 20*time.Millisecond, nil)
	m.SearchQuery("opensearch", 5*time.Millisecond, errors.New("timeout"))
	m.PageChange("cursor", "next")
	m.PageChange("cursor", "next")
	m.SnapshotOp("save", nil)
	m.HTTPRequest("GET", "/tables/:id/records", 200, time.Millisecond)

	if got := testutil.ToFloat64(m.SearchQueries.WithLabelValues("opensearch", "success")); got != 1 {
		t.Errorf("search success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SearchQueries.WithLabelValues("opensearch", "error")); got != 1 {
		t.Errorf("search error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PageChanges.WithLabelValues("cursor", "next")); got != 2 {
		t.Errorf("page changes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/tables/:id/records", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if n, err := testutil.GatherAndCount(reg, "gqltable_search_query_duration_seconds"); err != nil || n != 1 {
		t.Errorf("duration series = %d, %v", n, err)
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
