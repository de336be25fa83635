// Package search fetches table records from a search engine.
//
// Client.Fetch parses the serialized query with query/grammar, maps the
// relay-style page variables onto an offset window and runs the request on
// the active engine through a circuit breaker inside a trace span. Engines
// are pluggable adapters registered by the elasticsearch, opensearch and
// meilisearch subpackages:
//
//	import _ "github.com/ncobase/gqltable/search/elasticsearch"
//
//	adapters, err := search.OpenAdapters(cfg.Search)
//	client := search.NewClient(ctx, cfg.Search, adapters, search.WithCollector(m))
//	page, err := client.Fetch(ctx, "orders", vars)
//
// The configured default engine is used when healthy; otherwise the first
// healthy engine in the order OpenSearch, Elasticsearch, Meilisearch.
package search
