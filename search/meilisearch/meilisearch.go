// Package meilisearch is the Meilisearch adapter of the search client.
// Importing it registers the adapter factory.
package meilisearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/search"
)

func init() {
	search.RegisterFactory(search.Meilisearch, func(cfg *config.Search) (search.Adapter, error) {
		if cfg == nil || cfg.Meilisearch == nil || cfg.Meilisearch.Host == "" {
			return nil, nil
		}
		return New(cfg.Meilisearch)
	})
}

// Adapter runs table fetches on Meilisearch.
type Adapter struct {
	client meilisearch.ServiceManager
}

// New creates an adapter for the configured host.
func New(cfg *config.Meilisearch) (*Adapter, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, errors.New("meilisearch host is required")
	}
	return &Adapter{client: meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))}, nil
}

// Engine implements search.Adapter.
func (a *Adapter) Engine() search.Engine { return search.Meilisearch }

// Search implements search.Adapter.
func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	q, params := Translate(req)
	res, err := a.client.Index(req.Index).SearchWithContext(ctx, q, params)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search error: %w", err)
	}

	hits := make([]search.Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		source := make(map[string]any, len(hit))
		for k, raw := range hit {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("decode hit field %s: %w", k, err)
			}
			source[k] = v
		}
		h := search.Hit{Score: 1.0, Source: source}
		if id, ok := source["id"]; ok {
			h.ID = fmt.Sprintf("%v", id)
		}
		if score, ok := source["_rankingScore"].(float64); ok {
			h.Score = score
			delete(source, "_rankingScore")
		}
		hits = append(hits, h)
	}

	total := res.EstimatedTotalHits
	if res.TotalHits > 0 {
		total = res.TotalHits
	}
	return &search.Response{Total: total, Hits: hits}, nil
}

// Index implements search.Adapter.
func (a *Adapter) Index(_ context.Context, index string, documents []map[string]any) error {
	docs := make([]any, len(documents))
	for i, doc := range documents {
		docs[i] = doc
	}
	pk := "id"
	if _, err := a.client.Index(index).AddDocuments(docs, &meilisearch.DocumentOptions{PrimaryKey: &pk}); err != nil {
		return fmt.Errorf("meilisearch add documents error: %w", err)
	}
	return nil
}

// Health implements search.Adapter.
func (a *Adapter) Health(context.Context) error {
	_, err := a.client.Health()
	return err
}
