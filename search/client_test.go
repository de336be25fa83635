package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/types"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeAdapter struct {
	mu        sync.Mutex
	engine    Engine
	healthErr error
	searchErr error
	total     int64
	requests  []Request
	indexed   map[string][]map[string]any
}

func (f *fakeAdapter) Engine() Engine { return f.engine }

func (f *fakeAdapter) Health(context.Context) error { return f.healthErr }

func (f *fakeAdapter) Search(_ context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, *req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var hits []Hit
	for i := req.From; i < req.From+req.Size && int64(i) < f.total; i++ {
		hits = append(hits, Hit{ID: paging.EncodeCursor(i)})
	}
	return &Response{Total: f.total, Hits: hits}, nil
}

func (f *fakeAdapter) Index(_ context.Context, index string, docs []map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[string][]map[string]any{}
	}
	f.indexed[index] = append(f.indexed[index], docs...)
	return nil
}

type recordingCollector struct {
	queries []string
	indexed []string
}

func (r *recordingCollector) SearchQuery(engine string, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.queries = append(r.queries, engine+":"+status)
}

func (r *recordingCollector) SearchIndexOp(engine, op string) {
	r.indexed = append(r.indexed, engine+":"+op)
}

func TestClient_EngineSelection(t *testing.T) {
	ctx := context.Background()
	es := &fakeAdapter{engine: Elasticsearch}
	os := &fakeAdapter{engine: OpenSearch}
	ms := &fakeAdapter{engine: Meilisearch}

	tests := []struct {
		name     string
		def      string
		adapters []Adapter
		want     Engine
	}{
		{"priority", "", []Adapter{es, os, ms}, OpenSearch},
		{"default", "meilisearch", []Adapter{es, os, ms}, Meilisearch},
		{"unhealthy default", "meilisearch", []Adapter{es, &fakeAdapter{engine: Meilisearch, healthErr: errors.New("down")}}, Elasticsearch},
		{"unknown default", "solr", []Adapter{ms}, Meilisearch},
		{"none", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(ctx, &config.Search{DefaultEngine: tt.def}, tt.adapters)
			if got := c.Engine(); got != tt.want {
				t.Errorf("Engine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_FetchNoEngine(t *testing.T) {
	c := NewClient(context.Background(), nil, nil)
	if _, err := c.Fetch(context.Background(), "orders", query.Variables{}); !errors.Is(err, ErrNoEngineAvailable) {
		t.Fatalf("Fetch() error = %v, want ErrNoEngineAvailable", err)
	}
}

func TestClient_Fetch(t *testing.T) {
	ctx := context.Background()
	a := &fakeAdapter{engine: Elasticsearch, total: 15}
	col := &recordingCollector{}
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	c := NewClient(ctx, &config.Search{IndexPrefix: "app-prod", SearchableFields: []string{"name"}},
		[]Adapter{a}, WithCollector(col), WithTracerProvider(tp), WithDefaultPageSize(10))

	sort := &types.SortSpec{Field: "created", Direction: types.Descending}
	page, err := c.Fetch(ctx, "orders", query.Variables{Query: `acme status:"open"`, OrderBy: sort, First: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(page.Items) != 10 || page.Total != 15 || page.Engine != Elasticsearch {
		t.Fatalf("unexpected page: %d items, total %d, engine %s", len(page.Items), page.Total, page.Engine)
	}
	if !page.PageInfo.HasNextPage || page.PageInfo.HasPreviousPage {
		t.Errorf("page info = %+v", page.PageInfo)
	}

	req := a.requests[0]
	if req.Index != "app-prod-orders" || req.From != 0 || req.Size != 10 || req.Sort != sort {
		t.Errorf("request = %+v", req)
	}
	if req.Expr.FreeText() != "acme" || len(req.Expr.Terms("status")) != 1 {
		t.Errorf("expression not parsed: %+v", req.Expr)
	}

	// Following the end cursor yields the last five records.
	page, err = c.Fetch(ctx, "orders", query.Variables{After: page.PageInfo.EndCursor, First: 10})
	if err != nil {
		t.Fatalf("Fetch next: %v", err)
	}
	if len(page.Items) != 5 || page.PageInfo.HasNextPage || !page.PageInfo.HasPreviousPage {
		t.Errorf("second page = %d items, %+v", len(page.Items), page.PageInfo)
	}
	if a.requests[1].From != 10 {
		t.Errorf("second request from = %d, want 10", a.requests[1].From)
	}

	// Backward from the start cursor of the second page.
	page, err = c.Fetch(ctx, "orders", query.Variables{Before: page.PageInfo.StartCursor, Last: 10})
	if err != nil {
		t.Fatalf("Fetch prev: %v", err)
	}
	if a.requests[2].From != 0 || a.requests[2].Size != 10 || len(page.Items) != 10 {
		t.Errorf("prev request = %+v", a.requests[2])
	}

	if len(col.queries) != 3 || col.queries[0] != "elasticsearch:ok" {
		t.Errorf("collector = %v", col.queries)
	}
	spans := sr.Ended()
	if len(spans) != 3 || spans[0].Name() != "search.fetch" {
		t.Fatalf("spans = %d", len(spans))
	}
}

func TestClient_FetchErrors(t *testing.T) {
	ctx := context.Background()
	a := &fakeAdapter{engine: Meilisearch, searchErr: errors.New("boom")}
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	c := NewClient(ctx, nil, []Adapter{a}, WithTracerProvider(tp))

	for _, q := range []string{`name:"open`, `name:`, `(oops`} {
		if _, err := c.Fetch(ctx, "orders", query.Variables{Query: q}); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Fetch(%q) error = %v, want ErrInvalidQuery", q, err)
		}
	}
	if _, err := c.Fetch(ctx, "orders", query.Variables{After: "bogus"}); !errors.Is(err, paging.ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
	if _, err := c.Fetch(ctx, "orders", query.Variables{}); err == nil {
		t.Error("expected search error")
	}
	spans := sr.Ended()
	if len(spans) != 1 || len(spans[0].Events()) == 0 {
		t.Errorf("error not recorded on span: %d spans", len(spans))
	}

	if _, err := c.SearchWith(ctx, OpenSearch, &Request{}); !errors.Is(err, ErrEngineNotFound) {
		t.Errorf("SearchWith unknown engine = %v", err)
	}
}

func TestClient_Index(t *testing.T) {
	ctx := context.Background()
	a := &fakeAdapter{engine: OpenSearch}
	col := &recordingCollector{}
	c := NewClient(ctx, &config.Search{IndexPrefix: "app"}, []Adapter{a}, WithCollector(col))

	docs := []map[string]any{{"id": "1"}, {"id": "2"}}
	if err := c.Index(ctx, "orders", docs); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(a.indexed["app-orders"]) != 2 {
		t.Errorf("indexed = %v", a.indexed)
	}
	if len(col.indexed) != 1 || col.indexed[0] != "opensearch:bulk_index" {
		t.Errorf("collector = %v", col.indexed)
	}
}

func TestRegistry(t *testing.T) {
	RegisterFactory("fake", func(cfg *config.Search) (Adapter, error) {
		if cfg.DefaultEngine != "fake" {
			return nil, nil
		}
		return &fakeAdapter{engine: "fake"}, nil
	})

	found := false
	for _, e := range RegisteredEngines() {
		found = found || e == "fake"
	}
	if !found {
		t.Fatal("fake engine not registered")
	}

	adapters, err := OpenAdapters(&config.Search{})
	if err != nil || len(adapters) != 0 {
		t.Fatalf("OpenAdapters unconfigured = %v, %v", adapters, err)
	}
	adapters, err = OpenAdapters(&config.Search{DefaultEngine: "fake"})
	if err != nil || len(adapters) != 1 {
		t.Fatalf("OpenAdapters = %v, %v", adapters, err)
	}
}
