// Package elasticsearch is the Elasticsearch adapter of the search client.
// Importing it registers the adapter factory.
package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/search"
)

func init() {
	search.RegisterFactory(search.Elasticsearch, func(cfg *config.Search) (search.Adapter, error) {
		if cfg == nil || cfg.Elasticsearch == nil || len(cfg.Elasticsearch.Addresses) == 0 {
			return nil, nil
		}
		return New(cfg.Elasticsearch)
	})
}

// Adapter runs table fetches on Elasticsearch.
type Adapter struct {
	client *elasticsearch.Client
}

// New creates an adapter for the configured cluster.
func New(cfg *config.Elasticsearch) (*Adapter, error) {
	if cfg == nil || len(cfg.Addresses) == 0 {
		return nil, errors.New("elasticsearch addresses are required")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}
	return &Adapter{client: es}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(es *elasticsearch.Client) *Adapter {
	return &Adapter{client: es}
}

// Engine implements search.Adapter.
func (a *Adapter) Engine() search.Engine { return search.Elasticsearch }

type searchResult struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string         `json:"_id"`
			Score  float64        `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search implements search.Adapter.
func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	body, err := json.Marshal(search.QueryDSL(req))
	if err != nil {
		return nil, err
	}

	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(req.Index),
		a.client.Search.WithBody(strings.NewReader(string(body))),
		a.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	defer closeBody(res.Body)

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned status: %s", res.Status())
	}

	var sr searchResult
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}

	hits := make([]search.Hit, len(sr.Hits.Hits))
	for i, h := range sr.Hits.Hits {
		hits[i] = search.Hit{ID: h.ID, Score: h.Score, Source: h.Source}
	}
	return &search.Response{Total: sr.Hits.Total.Value, Hits: hits}, nil
}

// Index implements search.Adapter.
func (a *Adapter) Index(ctx context.Context, index string, documents []map[string]any) error {
	body, err := search.BulkBody(documents)
	if err != nil {
		return err
	}
	req := esapi.BulkRequest{
		Index:   index,
		Body:    strings.NewReader(body),
		Refresh: "true",
	}
	res, err := req.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk error: %w", err)
	}
	defer closeBody(res.Body)
	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk error: %s", res.Status())
	}
	return nil
}

// Health implements search.Adapter.
func (a *Adapter) Health(ctx context.Context) error {
	res, err := a.client.Info(a.client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer closeBody(res.Body)
	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.Status())
	}
	return nil
}

func closeBody(body io.ReadCloser) {
	_ = body.Close()
}
