package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/query/grammar"
	"github.com/ncobase/gqltable/types"
)

var (
	ErrNoEngineAvailable = errors.New("no search engine available")
	ErrEngineNotFound    = errors.New("search engine not found")
	// ErrInvalidQuery wraps a query string that does not parse.
	ErrInvalidQuery      = errors.New("invalid query")
)

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
	Meilisearch   Engine = "meilisearch"
)

// priority is the fallback order when the default engine is unavailable.
var priority = []Engine{OpenSearch, Elasticsearch, Meilisearch}

// Request is one translated fetch handed to an adapter.
type Request struct {
	Index  string
	Expr   *grammar.Expr
	Sort   *types.SortSpec
	Fields []string
	From   int
	Size   int
}

// Response is what an adapter returns for a Request.
type Response struct {
	Total    int64         `json:"total"`
	Hits     []Hit         `json:"hits"`
	Duration time.Duration `json:"duration"`
	Engine   Engine        `json:"engine"`
}

// Hit represents search result item
type Hit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source"`
}

// Page is one page of records with its relay page info.
type Page struct {
	Items    []Hit           `json:"items"`
	Total    int64           `json:"total"`
	PageInfo paging.PageInfo `json:"page_info"`
	Engine   Engine          `json:"engine"`
}

// Adapter is one search engine backend.
type Adapter interface {
	Engine() Engine
	Search(ctx context.Context, req *Request) (*Response, error)
	Index(ctx context.Context, index string, documents []map[string]any) error
	Health(ctx context.Context) error
}

// Factory creates an adapter from the search configuration. It returns a nil
// adapter when the engine is not configured.
type Factory func(cfg *config.Search) (Adapter, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[Engine]Factory)
)

// RegisterFactory registers the adapter factory of an engine.
// Engine packages call it from init.
func RegisterFactory(engine Engine, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if factory == nil {
		panic("search: register nil factory for " + string(engine))
	}
	factories[engine] = factory
}

// RegisteredEngines returns the engines with a registered factory, sorted.
func RegisteredEngines() []Engine {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	engines := make([]Engine, 0, len(factories))
	for engine := range factories {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}

// OpenAdapters builds an adapter for every registered and configured engine.
func OpenAdapters(cfg *config.Search) ([]Adapter, error) {
	var adapters []Adapter
	for _, engine := range RegisteredEngines() {
		factoriesMu.RLock()
		factory := factories[engine]
		factoriesMu.RUnlock()

		a, err := factory(cfg)
		if err != nil {
			return nil, fmt.Errorf("open %s adapter: %w", engine, err)
		}
		if a != nil {
			adapters = append(adapters, a)
		}
	}
	return adapters, nil
}
