// Package metrics exposes prometheus collectors for search fetches, page
// changes, snapshot operations and HTTP requests.
//
//	m := metrics.New(prometheus.NewRegistry())
//	m.SearchQuery("opensearch", time.Since(start), err)
package metrics
