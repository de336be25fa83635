package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gqltable"

// Metrics holds the prometheus collectors of one process.
type Metrics struct {
	// SearchQueries counts fetches per engine and outcome.
	SearchQueries *prometheus.CounterVec
	// SearchDuration is the fetch latency per engine.
	SearchDuration *prometheus.HistogramVec
	// SearchIndex counts index operations per engine.
	SearchIndex *prometheus.CounterVec
	// PageChanges counts committed page changes per strategy and direction.
	PageChanges *prometheus.CounterVec
	// SnapshotOps counts snapshot store operations.
	SnapshotOps *prometheus.CounterVec
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal *prometheus.CounterVec
	// RequestDuration is the latency of HTTP requests.
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		SearchQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of search fetches",
		}, []string{"engine", "status"}),
		SearchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_query_duration_seconds",
			Help:      "Search fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"engine"}),
		SearchIndex: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_index_operations_total",
			Help:      "Total number of search index operations",
		}, []string{"engine", "operation"}),
		PageChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_changes_total",
			Help:      "Total number of committed page changes",
		}, []string{"strategy", "direction"}),
		SnapshotOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_operations_total",
			Help:      "Total number of snapshot store operations",
		}, []string{"operation", "status"}),
		RequestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// SearchQuery records one fetch.
func (m *Metrics) SearchQuery(engine string, d time.Duration, err error) {
	m.SearchQueries.WithLabelValues(engine, status(err)).Inc()
	m.SearchDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// SearchIndexOp records an index operation.
func (m *Metrics) SearchIndexOp(engine, operation string) {
	m.SearchIndex.WithLabelValues(engine, operation).Inc()
}

// PageChange records a committed page change.
func (m *Metrics) PageChange(strategy, direction string) {
	m.PageChanges.WithLabelValues(strategy, direction).Inc()
}

// SnapshotOp records a snapshot store operation.
func (m *Metrics) SnapshotOp(operation string, err error) {
	m.SnapshotOps.WithLabelValues(operation, status(err)).Inc()
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(method, route string, code int, d time.Duration) {
	m.RequestTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
