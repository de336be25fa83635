// Package opensearch is the OpenSearch adapter of the search client.
// Importing it registers the adapter factory.
package opensearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/search"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

func init() {
	search.RegisterFactory(search.OpenSearch, func(cfg *config.Search) (search.Adapter, error) {
		if cfg == nil || cfg.OpenSearch == nil || len(cfg.OpenSearch.Addresses) == 0 {
			return nil, nil
		}
		return New(cfg.OpenSearch)
	})
}

// Adapter runs table fetches on OpenSearch.
type Adapter struct {
	client *opensearchapi.Client
}

// New creates an adapter for the configured cluster.
func New(cfg *config.OpenSearch) (*Adapter, error) {
	if cfg == nil || len(cfg.Addresses) == 0 {
		return nil, errors.New("opensearch addresses are required")
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipTLS},
	}
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:  cfg.Addresses,
			Username:   cfg.Username,
			Password:   cfg.Password,
			Transport:  transport,
			MaxRetries: 3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}
	return &Adapter{client: client}, nil
}

// Engine implements search.Adapter.
func (a *Adapter) Engine() search.Engine { return search.OpenSearch }

// Search implements search.Adapter.
func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	body, err := json.Marshal(search.QueryDSL(req))
	if err != nil {
		return nil, err
	}
	res, err := a.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{req.Index},
		Body:    strings.NewReader(string(body)),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		var source map[string]any
		if len(h.Source) > 0 {
			if err := json.Unmarshal(h.Source, &source); err != nil {
				return nil, fmt.Errorf("decode hit %s: %w", h.ID, err)
			}
		}
		hits = append(hits, search.Hit{ID: h.ID, Score: float64(h.Score), Source: source})
	}
	return &search.Response{Total: int64(res.Hits.Total.Value), Hits: hits}, nil
}

// Index implements search.Adapter.
func (a *Adapter) Index(ctx context.Context, index string, documents []map[string]any) error {
	body, err := search.BulkBody(documents)
	if err != nil {
		return err
	}
	if _, err := a.client.Bulk(ctx, opensearchapi.BulkReq{
		Index: index,
		Body:  strings.NewReader(body),
	}); err != nil {
		return fmt.Errorf("opensearch bulk index error: %w", err)
	}
	return nil
}

// Health implements search.Adapter.
func (a *Adapter) Health(ctx context.Context) error {
	res, err := a.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return fmt.Errorf("opensearch health check error: %w", err)
	}
	if res.Status == "red" {
		return errors.New("opensearch cluster status is red")
	}
	return nil
}
