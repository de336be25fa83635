package paging

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/ncobase/gqltable/log"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/route"
)

// Snapshots persists location parameters per table identifier.
type Snapshots interface {
	Save(ctx context.Context, id string, values url.Values) error
	Load(ctx context.Context, id string) (url.Values, error)
}

// VariablesFunc receives the new fetch variables after a cursor page change.
type VariablesFunc func(vars query.Variables, dir Direction)

// Cursor is the page controller for remote cursor pagination.
type Cursor struct {
	mu       sync.Mutex
	id       string
	pageSize int
	loc      route.Location
	store    Snapshots
	onChange VariablesFunc
	vars     query.Variables
	info     PageInfo
}

// NewCursor creates a controller for the table identified by id.
// store may be nil, in which case no snapshot is saved.
func NewCursor(id string, pageSize int, loc route.Location, store Snapshots, onChange VariablesFunc) *Cursor {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Cursor{id: id, pageSize: pageSize, loc: loc, store: store, onChange: onChange}
}

// SetPageInfo records the page info returned with the latest page.
func (c *Cursor) SetPageInfo(info PageInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info = info
}

// PageInfo returns the recorded page info.
func (c *Cursor) PageInfo() PageInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// SetVariables replaces the current fetch variables, typically after the
// filters were re-serialized.
func (c *Cursor) SetVariables(vars query.Variables) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars = vars.Clone()
}

// Variables returns a copy of the current fetch variables.
func (c *Cursor) Variables() query.Variables {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vars.Clone()
}

// Reset drops the cursor position, returning to the first page.
func (c *Cursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars.After, c.vars.Before, c.vars.Last = "", "", 0
	c.vars.First = c.pageSize
	c.info = PageInfo{}
}

// LoadNext moves forward past the end cursor. It is a no-op without a next page.
func (c *Cursor) LoadNext(ctx context.Context) error {
	c.mu.Lock()
	if !c.info.HasNextPage {
		c.mu.Unlock()
		return nil
	}
	c.vars.First, c.vars.After = c.pageSize, c.info.EndCursor
	c.vars.Last, c.vars.Before = 0, ""
	delta := route.Delta{route.KeyBefore: "", route.KeyAfter: c.info.EndCursor}
	return c.commit(ctx, delta, Next)
}

// LoadPrev moves backward before the start cursor. It is a no-op without a previous page.
func (c *Cursor) LoadPrev(ctx context.Context) error {
	c.mu.Lock()
	if !c.info.HasPreviousPage {
		c.mu.Unlock()
		return nil
	}
	c.vars.Last, c.vars.Before = c.pageSize, c.info.StartCursor
	c.vars.First, c.vars.After = 0, ""
	delta := route.Delta{route.KeyAfter: "", route.KeyBefore: c.info.StartCursor}
	return c.commit(ctx, delta, Prev)
}

// commit is called with c.mu held and releases it.
func (c *Cursor) commit(ctx context.Context, delta route.Delta, dir Direction) error {
	vars := c.vars.Clone()
	fn := c.onChange
	c.mu.Unlock()

	params := route.Merge(c.loc.Read(), delta)
	if c.store != nil {
		if err := c.store.Save(ctx, c.id, params); err != nil {
			log.Warnf(ctx, "paging: save snapshot for %q: %v", c.id, err)
		}
	}
	c.loc.Push(params)

	if fn != nil {
		fn(vars, dir)
	}
	return nil
}

// Next implements Pager.
func (c *Cursor) Next(ctx context.Context) error { return c.LoadNext(ctx) }

// Prev implements Pager.
func (c *Cursor) Prev(ctx context.Context) error { return c.LoadPrev(ctx) }

// GoBack restores the location saved for id. It reports whether a snapshot existed.
func GoBack(ctx context.Context, store Snapshots, loc route.Location, id string) (bool, error) {
	values, err := store.Load(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load snapshot %q: %w", id, err)
	}
	if len(values) == 0 {
		return false, nil
	}
	loc.Push(values)
	return true, nil
}
