package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/gqltable/ecode"
	"github.com/ncobase/gqltable/log"
	"github.com/ncobase/gqltable/metrics"
	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/resp"
	"github.com/ncobase/gqltable/route"
	"github.com/ncobase/gqltable/search"
	"github.com/ncobase/gqltable/snapshot"
	"github.com/ncobase/gqltable/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetcher runs table variables against a backend.
type Fetcher interface {
	Fetch(ctx context.Context, index string, vars query.Variables) (*search.Page, error)
}

// Options configures a Handler.
type Options struct {
	Fetcher    Fetcher
	Store      snapshot.Store
	Serializer *query.Serializer
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	PageSize   int
	Mode       string
	// DisableMetrics removes the /metrics route.
	DisableMetrics bool
}

// Handler serves table records and page changes over HTTP.
type Handler struct {
	fetcher    Fetcher
	store      snapshot.Store
	serializer *query.Serializer
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	pageSize   int
	mode       string
	noMetrics  bool
}

// New creates a handler.
func New(opts Options) *Handler {
	h := &Handler{
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		serializer: opts.Serializer,
		metrics:    opts.Metrics,
		gatherer:   opts.Gatherer,
		pageSize:   opts.PageSize,
		mode:       opts.Mode,
		noMetrics:  opts.DisableMetrics,
	}
	if h.serializer == nil {
		h.serializer = query.NewSerializer()
	}
	if h.pageSize <= 0 {
		h.pageSize = 10
	}
	if h.gatherer == nil {
		h.gatherer = prometheus.DefaultGatherer
	}
	if h.store != nil && h.metrics != nil {
		h.store = snapshot.WithMetrics(h.store, h.metrics)
	}
	return h
}

// Router builds the gin engine.
func (h *Handler) Router() *gin.Engine {
	if h.mode != "" {
		gin.SetMode(h.mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(h.loggerMiddleware())

	r.GET("/health", func(c *gin.Context) {
		resp.Success(c.Writer, map[string]string{"status": "healthy"})
	})
	if !h.noMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	tables := r.Group("/tables/:id")
	tables.GET("/records", h.records)
	tables.POST("/next", h.page(paging.Next))
	tables.POST("/prev", h.page(paging.Prev))
	tables.GET("/back", h.back)
	return r
}

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, traceID := log.EnsureTraceID(c.Request.Context())
		c.Header("X-Trace-ID", traceID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fullPath := c.FullPath()
		if fullPath == "" {
			fullPath = "unmatched"
		}
		status := c.Writer.Status()
		if h.metrics != nil {
			h.metrics.HTTPRequest(c.Request.Method, fullPath, status, duration)
		}
		log.Infof(ctx, "HTTP request method=%s path=%s status=%d duration=%s",
			c.Request.Method, c.Request.URL.Path, status, duration)
	}
}

// RecordsResponse is the body of a records request.
type RecordsResponse struct {
	Variables query.Variables `json:"variables"`
	Items     []search.Hit    `json:"items"`
	PageInfo  paging.PageInfo `json:"page_info"`
	Total     int64           `json:"total"`
}

// records decodes the location, serializes it and fetches one page.
func (h *Handler) records(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	state, err := route.FromValues(c.Request.URL.Query())
	if err != nil {
		if !errors.Is(err, route.ErrMalformedFilter) {
			resp.Fail(c.Writer, resp.BadRequest(err.Error()))
			return
		}
		log.Warnf(ctx, "table %s: ignoring malformed filter: %v", id, err)
	}

	vars := h.variables(state)
	if h.fetcher == nil {
		resp.Fail(c.Writer, resp.WithCode(ecode.NoSearchEngine, ""))
		return
	}
	page, err := h.fetcher.Fetch(ctx, id, vars)
	if err != nil {
		resp.Fail(c.Writer, fetchError(err))
		return
	}
	resp.Success(c.Writer, &RecordsResponse{
		Variables: vars,
		Items:     page.Items,
		PageInfo:  page.PageInfo,
		Total:     page.Total,
	})
}

// variables serializes a decoded location into fetch variables.
func (h *Handler) variables(state route.State) query.Variables {
	base := query.Variables{First: h.pageSize}
	switch {
	case state.After != "":
		base.After = state.After
	case state.Before != "":
		base.Before, base.First, base.Last = state.Before, 0, h.pageSize
	}
	return h.serializer.Variables(base, state.Filters, state.Query, state.SortSelector())
}

func fetchError(err error) *resp.Exception {
	switch {
	case errors.Is(err, search.ErrNoEngineAvailable), errors.Is(err, search.ErrEngineNotFound):
		return resp.WithCode(ecode.NoSearchEngine, "")
	case errors.Is(err, search.ErrInvalidQuery):
		return resp.WithCode(ecode.InvalidQuery, err.Error())
	case errors.Is(err, paging.ErrInvalidCursor):
		return resp.WithCode(ecode.InvalidCursor, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return resp.WithCode(ecode.Deadline, "")
	}
	return resp.InternalServer(err.Error())
}

// PageRequest is the body of a next or prev request.
type PageRequest struct {
	Location  string          `json:"location"`
	Variables query.Variables `json:"variables"`
	PageInfo  paging.PageInfo `json:"page_info"`
	PageSize  int             `json:"page_size" validate:"gte=0,lte=1024"`
}

// PageResponse is the body answering a page change.
type PageResponse struct {
	Location  string          `json:"location"`
	Variables query.Variables `json:"variables"`
	Changed   bool            `json:"changed"`
}

// page runs the cursor controller over a request-scoped location.
func (h *Handler) page(dir paging.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		var req PageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			resp.Fail(c.Writer, resp.BadRequest(err.Error()))
			return
		}
		if errs := validator.ValidateStruct(&req); len(errs) > 0 {
			resp.Fail(c.Writer, resp.InvalidParams(ecode.FieldIsInvalid("page request"), errs))
			return
		}
		size := req.PageSize
		if size == 0 {
			size = h.pageSize
		}

		loc := route.NewMemoryLocation("/tables/"+id, req.Location)
		changed := false
		cursor := paging.NewCursor(id, size, loc, h.snapshots(), func(query.Variables, paging.Direction) {
			changed = true
		})
		cursor.SetVariables(req.Variables)
		cursor.SetPageInfo(req.PageInfo)

		var err error
		if dir == paging.Next {
			err = cursor.LoadNext(ctx)
		} else {
			err = cursor.LoadPrev(ctx)
		}
		if err != nil {
			resp.Fail(c.Writer, resp.InternalServer(err.Error()))
			return
		}
		if changed && h.metrics != nil {
			h.metrics.PageChange("cursor", string(dir))
		}
		resp.Success(c.Writer, &PageResponse{
			Location:  loc.Read().Encode(),
			Variables: cursor.Variables(),
			Changed:   changed,
		})
	}
}

// snapshots returns the store as the cursor's snapshot collaborator, or nil.
func (h *Handler) snapshots() paging.Snapshots {
	if h.store == nil {
		return nil
	}
	return h.store
}

// back answers the location saved for a table.
func (h *Handler) back(c *gin.Context) {
	id := c.Param("id")
	if h.store == nil {
		resp.Fail(c.Writer, resp.NotFound(ecode.NotExist("snapshot store")))
		return
	}
	loc := route.NewMemoryLocation("/tables/"+id, "")
	ok, err := paging.GoBack(c.Request.Context(), h.store, loc, id)
	if err != nil {
		resp.Fail(c.Writer, resp.WithCode(ecode.SnapshotErr, err.Error()))
		return
	}
	if !ok {
		resp.Fail(c.Writer, resp.NotFound(ecode.NotExist("snapshot " + id)))
		return
	}
	resp.Success(c.Writer, map[string]string{"location": loc.Read().Encode()})
}
