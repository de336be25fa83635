package snapshot

import (
	"context"
	"net/url"
)

// Collector receives snapshot store metrics.
type Collector interface {
	SnapshotOp(operation string, err error)
}

type metered struct {
	Store
	collector Collector
}

// WithMetrics reports every operation of s to c.
func WithMetrics(s Store, c Collector) Store {
	if c == nil {
		return s
	}
	return &metered{Store: s, collector: c}
}

func (m *metered) Save(ctx context.Context, id string, values url.Values) error {
	err := m.Store.Save(ctx, id, values)
	m.collector.SnapshotOp("save", err)
	return err
}

func (m *metered) Load(ctx context.Context, id string) (url.Values, error) {
	values, err := m.Store.Load(ctx, id)
	m.collector.SnapshotOp("load", err)
	return values, err
}

func (m *metered) Delete(ctx context.Context, id string) error {
	err := m.Store.Delete(ctx, id)
	m.collector.SnapshotOp("delete", err)
	return err
}
