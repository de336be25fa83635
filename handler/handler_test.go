package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/gqltable/ecode"
	"github.com/ncobase/gqltable/metrics"
	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/route"
	"github.com/ncobase/gqltable/search"
	"github.com/ncobase/gqltable/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	index string
	vars  query.Variables
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, index string, vars query.Variables) (*search.Page, error) {
	f.index, f.vars = index, vars
	if f.err != nil {
		return nil, f.err
	}
	return &search.Page{
		Items:    []search.Hit{{ID: "1"}, {ID: "2"}},
		Total:    12,
		PageInfo: paging.PageInfo{HasNextPage: true, EndCursor: paging.EncodeCursor(1)},
	}, nil
}

func newTestHandler(t *testing.T, f Fetcher) (*gin.Engine, snapshot.Store) {
	t.Helper()
	reg := prometheus.NewRegistry()
	store := snapshot.NewMemory()
	h := New(Options{
		Fetcher:  f,
		Store:    store,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		PageSize: 2,
		Mode:     gin.TestMode,
	})
	return h.Router(), store
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecords(t *testing.T) {
	f := &fakeFetcher{}
	r, _ := newTestHandler(t, f)

	filters := query.NewFilters()
	filters.Set("status", query.String("open"))
	location, err := route.Encode(route.State{Query: "acme", Filters: filters, Sort: "name", Direction: "ASC"})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/tables/orders/records?"+location, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	var body RecordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "orders", f.index)
	assert.Equal(t, `acme status:"open"`, body.Variables.Query)
	require.NotNil(t, body.Variables.OrderBy)
	assert.Equal(t, "name", body.Variables.OrderBy.Field)
	assert.Equal(t, 2, body.Variables.First)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, int64(12), body.Total)
	assert.True(t, body.PageInfo.HasNextPage)
}

func TestRecords_BeforeCursor(t *testing.T) {
	f := &fakeFetcher{}
	r, _ := newTestHandler(t, f)

	w := do(r, http.MethodGet, "/tables/orders/records?before=c4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c4", f.vars.Before)
	assert.Equal(t, 2, f.vars.Last)
	assert.Zero(t, f.vars.First)
}

func TestRecords_MalformedFilter(t *testing.T) {
	f := &fakeFetcher{}
	r, _ := newTestHandler(t, f)

	w := do(r, http.MethodGet, "/tables/orders/records?query=acme&filter=%257Bbroken", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", f.vars.Query)
}

func TestRecords_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"no engine", search.ErrNoEngineAvailable, http.StatusServiceUnavailable, ecode.NoSearchEngine},
		{"bad cursor", paging.ErrInvalidCursor, http.StatusBadRequest, ecode.InvalidCursor},
		{"other", assert.AnError, http.StatusInternalServerError, ecode.ServerErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestHandler(t, &fakeFetcher{err: tt.err})
			w := do(r, http.MethodGet, "/tables/orders/records", "")
			assert.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.EqualValues(t, tt.code, body["code"])
		})
	}

	r, _ := newTestHandler(t, nil)
	w := do(r, http.MethodGet, "/tables/orders/records", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type emptyAdapter struct{}

func (emptyAdapter) Engine() search.Engine { return search.Meilisearch }

func (emptyAdapter) Search(context.Context, *search.Request) (*search.Response, error) {
	return &search.Response{}, nil
}

func (emptyAdapter) Index(context.Context, string, []map[string]any) error { return nil }

func (emptyAdapter) Health(context.Context) error { return nil }

func TestRecords_UnparseableQuery(t *testing.T) {
	client := search.NewClient(context.Background(), nil, []search.Adapter{emptyAdapter{}})
	r, _ := newTestHandler(t, client)

	for _, q := range []string{"name:", `say "hi`, "(oops"} {
		w := do(r, http.MethodGet, "/tables/orders/records?"+url.Values{"query": {q}}.Encode(), "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, ecode.InvalidQuery, body["code"], "query %q", q)
	}

	w := do(r, http.MethodGet, "/tables/orders/records?query=acme", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPageNextAndBack(t *testing.T) {
	r, store := newTestHandler(t, &fakeFetcher{})

	w := do(r, http.MethodGet, "/tables/orders/back", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := `{"location":"query=acme&tab=2","variables":{"query":"acme","first":2},` +
		`"page_info":{"hasNextPage":true,"startCursor":"s1","endCursor":"e1"}}`
	w = do(r, http.MethodPost, "/tables/orders/next", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page PageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.True(t, page.Changed)
	assert.Equal(t, "after=e1&query=acme&tab=2", page.Location)
	assert.Equal(t, "e1", page.Variables.After)
	assert.Equal(t, 2, page.Variables.First)
	assert.Equal(t, "acme", page.Variables.Query)

	saved, err := store.Load(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, url.Values{"after": {"e1"}, "query": {"acme"}, "tab": {"2"}}, saved)

	w = do(r, http.MethodGet, "/tables/orders/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	var back map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &back))
	assert.Equal(t, "after=e1&query=acme&tab=2", back["location"])
}

func TestPagePrevWithoutPreviousPage(t *testing.T) {
	r, store := newTestHandler(t, &fakeFetcher{})

	body := `{"location":"after=e1","variables":{"after":"e1","first":2},"page_info":{"hasPreviousPage":false}}`
	w := do(r, http.MethodPost, "/tables/orders/prev", body)
	require.Equal(t, http.StatusOK, w.Code)

	var page PageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.False(t, page.Changed)
	assert.Equal(t, "after=e1", page.Location)

	saved, err := store.Load(context.Background(), "orders")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestPageBadRequest(t *testing.T) {
	r, _ := newTestHandler(t, &fakeFetcher{})

	w := do(r, http.MethodPost, "/tables/orders/next", `{"location":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/tables/orders/next", `{"page_size":5000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestHandler(t, &fakeFetcher{})
	do(r, http.MethodGet, "/health", "")

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gqltable_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
