package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/log"
	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/query/grammar"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ncobase/gqltable/search"

// Collector receives search metrics.
type Collector interface {
	SearchQuery(engine string, d time.Duration, err error)
	SearchIndexOp(engine, operation string)
}

// NoOpCollector discards metrics.
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, time.Duration, error) {}
func (NoOpCollector) SearchIndexOp(string, string)             {}

// Client unified search client with configuration support
type Client struct {
	mu          sync.RWMutex
	adapters    map[Engine]Adapter
	breakers    map[Engine]*gobreaker.CircuitBreaker
	engine      Engine
	cfg         *config.Search
	collector   Collector
	tracer      trace.Tracer
	defaultSize int
}

// Option configures a Client.
type Option func(*Client)

// WithCollector sets the metrics collector.
func WithCollector(c Collector) Option {
	return func(cl *Client) {
		if c != nil {
			cl.collector = c
		}
	}
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cl *Client) {
		if tp != nil {
			cl.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithDefaultPageSize sets the page size used when neither first nor last is given.
func WithDefaultPageSize(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.defaultSize = n
		}
	}
}

// NewClient creates a client over the given adapters and selects the active
// engine by health.
func NewClient(ctx context.Context, cfg *config.Search, adapters []Adapter, opts ...Option) *Client {
	if cfg == nil {
		cfg = &config.Search{SearchableFields: []string{"*"}, Timeout: 5 * time.Second}
	}
	c := &Client{
		adapters:    make(map[Engine]Adapter, len(adapters)),
		breakers:    make(map[Engine]*gobreaker.CircuitBreaker, len(adapters)),
		cfg:         cfg,
		collector:   NoOpCollector{},
		tracer:      otel.Tracer(tracerName),
		defaultSize: 10,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		c.adapters[a.Engine()] = a
		c.breakers[a.Engine()] = newBreaker(a.Engine())
	}
	c.selectEngine(ctx)
	return c
}

func newBreaker(engine Engine) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(engine),
		MaxRequests: 100,
		Interval:    5 * time.Second,
		Timeout:     3 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})
}

func (c *Client) timeout() time.Duration {
	if c.cfg.Timeout > 0 {
		return c.cfg.Timeout
	}
	return 5 * time.Second
}

// selectEngine picks the configured default engine when healthy, otherwise
// the first healthy engine in priority order.
func (c *Client) selectEngine(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	healthy := func(e Engine) bool {
		a, ok := c.adapters[e]
		return ok && a.Health(ctx) == nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = ""
	if e := Engine(c.cfg.DefaultEngine); e != "" && healthy(e) {
		c.engine = e
		return
	}
	for _, e := range priority {
		if healthy(e) {
			c.engine = e
			return
		}
	}
}

// Refresh re-runs engine selection.
func (c *Client) Refresh(ctx context.Context) Engine {
	c.selectEngine(ctx)
	return c.Engine()
}

// Engine returns the active engine, or "" when none is healthy.
func (c *Client) Engine() Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// Health checks every configured engine.
func (c *Client) Health(ctx context.Context) map[Engine]error {
	results := make(map[Engine]error, len(c.adapters))
	for e, a := range c.adapters {
		results[e] = a.Health(ctx)
	}
	return results
}

// IndexName builds the full index name with the configured prefix.
func (c *Client) IndexName(index string) string {
	if c.cfg.IndexPrefix == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", c.cfg.IndexPrefix, index)
}

// Fetch runs the variables of a table against the active engine and returns
// one page. The cursors are offsets encoded by paging.EncodeCursor.
func (c *Client) Fetch(ctx context.Context, index string, vars query.Variables) (*Page, error) {
	engine := c.Engine()
	if engine == "" {
		return nil, ErrNoEngineAvailable
	}

	expr, err := grammar.Parse(vars.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	w, err := paging.ResolveWindow(paging.Args{
		First:  vars.First,
		Last:   vars.Last,
		After:  vars.After,
		Before: vars.Before,
	}, c.defaultSize)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: []Hit{}, Engine: engine}
	if w.Size == 0 {
		page.PageInfo = paging.NewPageInfo(w, 0, 0)
		return page, nil
	}

	resp, err := c.SearchWith(ctx, engine, &Request{
		Index:  index,
		Expr:   expr,
		Sort:   vars.OrderBy,
		Fields: c.cfg.SearchableFields,
		From:   w.From,
		Size:   w.Size,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Hits) > w.Size {
		resp.Hits = resp.Hits[:w.Size]
	}
	if resp.Hits != nil {
		page.Items = resp.Hits
	}
	page.Total = resp.Total
	page.PageInfo = paging.NewPageInfo(w, len(page.Items), resp.Total)
	return page, nil
}

// SearchWith searches using specified engine
func (c *Client) SearchWith(ctx context.Context, engine Engine, req *Request) (*Response, error) {
	a, ok := c.adapters[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, engine)
	}

	prefixed := *req
	prefixed.Index = c.IndexName(req.Index)

	ctx, span := c.tracer.Start(ctx, "search.fetch", trace.WithAttributes(
		attribute.String("search.engine", string(engine)),
		attribute.String("search.index", prefixed.Index),
		attribute.Int("search.from", prefixed.From),
		attribute.Int("search.size", prefixed.Size),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	start := time.Now()
	out, err := c.breakers[engine].Execute(func() (any, error) {
		return a.Search(ctx, &prefixed)
	})
	duration := time.Since(start)
	c.collector.SearchQuery(string(engine), duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Errorf(ctx, "search %s on %s failed: %v", prefixed.Index, engine, err)
		return nil, fmt.Errorf("%s search: %w", engine, err)
	}

	resp := out.(*Response)
	resp.Duration = duration
	resp.Engine = engine
	span.SetAttributes(attribute.Int64("search.total", resp.Total), attribute.Int("search.hits", len(resp.Hits)))
	return resp, nil
}

// Index adds documents to the index of the active engine.
func (c *Client) Index(ctx context.Context, index string, documents []map[string]any) error {
	engine := c.Engine()
	if engine == "" {
		return ErrNoEngineAvailable
	}
	full := c.IndexName(index)

	ctx, span := c.tracer.Start(ctx, "search.index", trace.WithAttributes(
		attribute.String("search.engine", string(engine)),
		attribute.String("search.index", full),
		attribute.Int("search.documents", len(documents)),
	))
	defer span.End()

	if err := c.adapters[engine].Index(ctx, full, documents); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s index: %w", engine, err)
	}
	c.collector.SearchIndexOp(string(engine), "bulk_index")
	return nil
}
