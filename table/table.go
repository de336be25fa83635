package table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/gqltable/debounce"
	"github.com/ncobase/gqltable/log"
	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/route"
	"github.com/ncobase/gqltable/types"
	"github.com/sirupsen/logrus"
)

const textKey = "text"

// VariablesFunc receives the fetch variables after every committed change.
// It runs while the table is locked and must not call back into the Table.
type VariablesFunc func(ctx context.Context, vars query.Variables)

// Chip is one active filter as shown above the table.
type Chip struct {
	Column string      `json:"column"`
	Title  string      `json:"title"`
	Label  string      `json:"label"`
	Value  query.Value `json:"value"`
}

// Table owns the filter, bind, operator, sort and text state of one table
// and mirrors it into the location. Every mutation runs to completion under
// one lock.
type Table struct {
	mu         sync.Mutex
	cfg        Config
	columns    map[string]Column
	titles     query.Columns
	serializer *query.Serializer
	loc        route.Location
	debouncer  *debounce.Debouncer
	onChange   VariablesFunc
	pager      paging.Pager

	text      string
	filters   query.Filters
	binds     query.Filters
	operators map[string]query.Operator
	sort      string
	vars      query.Variables
	gen       map[string]uint64
}

// Option configures a Table.
type Option func(*Table)

// WithSerializer replaces the default serializer, e.g. to set the timezone.
func WithSerializer(s *query.Serializer) Option {
	return func(t *Table) {
		if s != nil {
			t.serializer = s
		}
	}
}

// WithClock replaces the clock of the edit debouncer.
func WithClock(c debounce.Clock) Option {
	return func(t *Table) { t.debouncer = debounce.New(t.cfg.Debounce, debounce.WithClock(c)) }
}

// WithPager attaches the page controller driven by key triggers.
func WithPager(p paging.Pager) Option {
	return func(t *Table) { t.pager = p }
}

// New validates cfg and creates a table mirrored into loc.
func New(cfg Config, loc route.Location, onChange VariablesFunc, opts ...Option) (*Table, error) {
	if cfg.Debounce == 0 {
		cfg.Debounce = debounce.DefaultWindow
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid table config: %w", err)
	}
	if loc == nil {
		return nil, errors.New("table location is required")
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 10
	}
	if cfg.Base.First == 0 && cfg.Base.Last == 0 {
		cfg.Base.First = cfg.PageSize
	}

	pairs := make(map[string]string, len(cfg.Columns))
	columns := make(map[string]Column, len(cfg.Columns))
	for _, c := range cfg.Columns {
		columns[c.Key] = c
		pairs[c.Key] = c.Title
	}

	t := &Table{
		cfg:        cfg,
		columns:    columns,
		titles:     query.NewColumns(pairs),
		serializer: query.NewSerializer(),
		loc:        loc,
		onChange:   onChange,
		filters:    query.NewFilters(),
		binds:      query.NewFilters(),
		operators:  map[string]query.Operator{},
		vars:       cfg.Base.Clone(),
		gen:        map[string]uint64{},
	}
	t.debouncer = debounce.New(cfg.Debounce)
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ID returns the table identifier.
func (t *Table) ID() string { return t.cfg.ID }

// Columns returns the declared columns.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.cfg.Columns...)
}

// SetPager attaches the page controller driven by key triggers.
func (t *Table) SetPager(p paging.Pager) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pager = p
}

// Close cancels pending debounced commits.
func (t *Table) Close() {
	t.debouncer.Stop()
}

func (t *Table) logger(ctx context.Context) *logrus.Entry {
	return log.EntryWithFields(ctx, logrus.Fields{log.TableKey: t.cfg.ID})
}

// Mount restores the state from the location, then serializes and notifies.
// A malformed filter payload is logged and removed; the remaining keys are
// still restored.
func (t *Table) Mount(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := route.FromValues(t.loc.Read())
	if err != nil {
		if !errors.Is(err, route.ErrMalformedFilter) {
			return fmt.Errorf("decode location: %w", err)
		}
		t.logger(ctx).Warnf("dropping malformed filter payload: %v", err)
		t.loc.Write(route.Delta{route.KeyFilter: ""})
	}

	if dropped := state.Filters.Retain(t.filterable); len(dropped) > 0 {
		t.logger(ctx).Debugf("ignoring filters on unknown columns %v", dropped)
	}
	t.filters = state.Filters
	t.syncBinds()

	t.text = t.titles.ToTitles(state.Query)

	t.sort = state.SortSelector()
	if _, ok := types.ParseSort(t.sort); !ok {
		t.sort = ""
	}
	if t.sort == "" && t.cfg.DefaultSort != "" {
		t.sort = t.cfg.DefaultSort
		spec, _ := types.ParseSort(t.sort)
		t.loc.Write(route.Delta{route.KeySort: spec.Field, route.KeyDirection: string(spec.Direction)})
	}

	t.vars = t.cfg.Base.Clone()
	switch {
	case state.After != "":
		t.vars.After, t.vars.Before, t.vars.Last = state.After, "", 0
		t.vars.First = t.pageSize()
	case state.Before != "":
		t.vars.Before, t.vars.After, t.vars.First = state.Before, "", 0
		t.vars.Last = t.pageSize()
	}

	t.submit(ctx)
	return nil
}

func (t *Table) pageSize() int { return t.cfg.PageSize }

func (t *Table) filterable(key string) bool {
	c, ok := t.columns[key]
	return ok && c.Filterable()
}

func (t *Table) column(key string) (Column, error) {
	c, ok := t.columns[key]
	if !ok || !c.Filterable() {
		return Column{}, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	return c, nil
}

// syncBinds derives bind values and operators from the committed filters.
func (t *Table) syncBinds() {
	t.binds = query.NewFilters()
	t.operators = map[string]query.Operator{}
	t.filters.Range(func(key string, values []query.Value) bool {
		bound := make([]query.Value, 0, len(values))
		for _, v := range values {
			if v.Kind() == query.KindComparison {
				t.operators[key] = v.Operator()
			}
			bound = append(bound, v.Undecorated())
		}
		t.binds.Set(key, bound...)
		return true
	})
}

// submit re-serializes and notifies.
func (t *Table) submit(ctx context.Context) {
	t.vars = t.serializer.Variables(t.vars, t.filters, t.titles.ToKeys(t.text), t.sort)
	if s, ok := t.pager.(interface{ SetVariables(query.Variables) }); ok {
		s.SetVariables(t.vars)
	}
	if t.onChange != nil {
		t.onChange(ctx, t.vars.Clone())
	}
}

// resetPage returns to the first page and adds the cursor removal to delta.
func (t *Table) resetPage(delta route.Delta) {
	if r, ok := t.pager.(interface{ Reset() }); ok {
		r.Reset()
	}
	t.vars.After, t.vars.Before = "", ""
	t.vars.First, t.vars.Last = t.cfg.Base.First, t.cfg.Base.Last
	delta[route.KeyAfter] = ""
	delta[route.KeyBefore] = ""
}

// commitFilters resets the page, writes the filter payload and notifies.
func (t *Table) commitFilters(ctx context.Context) error {
	delta, err := route.FilterDelta(t.filters)
	if err != nil {
		return err
	}
	t.resetPage(delta)
	t.loc.Write(delta)
	t.submit(ctx)
	return nil
}

// Text returns the free text as displayed, with column titles.
func (t *Table) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// SetText records a free text edit and schedules a debounced commit.
func (t *Table) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = text
	g := t.bump(textKey)
	t.debouncer.Trigger(textKey, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen[textKey] != g {
			return
		}
		t.commitText(context.Background())
	})
}

// CommitText commits the free text immediately, as on enter or blur, and
// cancels any pending debounced commit.
func (t *Table) CommitText(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debouncer.Flush(textKey)
	t.bump(textKey)
	t.commitText(ctx)
}

func (t *Table) commitText(ctx context.Context) {
	delta := route.Delta{route.KeyQuery: t.titles.ToKeys(t.text)}
	t.resetPage(delta)
	t.loc.Write(delta)
	t.submit(ctx)
}

func (t *Table) bump(key string) uint64 {
	t.gen[key]++
	return t.gen[key]
}

func inputKey(column string) string { return "input:" + column }

// Input records an input widget edit and schedules a debounced commit.
// The displayed value updates immediately.
func (t *Table) Input(key, raw string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.column(key)
	if err != nil {
		return err
	}
	if c.FilterType != Input {
		return fmt.Errorf("%w: %s is %q", ErrWrongWidget, key, c.FilterType)
	}
	if raw == "" {
		t.binds.Delete(key)
	} else {
		t.binds.Set(key, query.String(raw))
	}

	dk := inputKey(key)
	g := t.bump(dk)
	t.debouncer.Trigger(dk, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen[dk] != g {
			return
		}
		if err := t.commitInput(context.Background(), key); err != nil {
			t.logger(context.Background()).Errorf("commit input %q: %v", key, err)
		}
	})
	return nil
}

// Blur commits a pending input edit immediately. Without a pending edit it does nothing.
func (t *Table) Blur(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.column(key); err != nil {
		return err
	}
	dk := inputKey(key)
	if !t.debouncer.Flush(dk) {
		return nil
	}
	t.bump(dk)
	return t.commitInput(ctx, key)
}

// commitInput turns the bound input text into a filter value, applying the
// column operator when one is selected.
func (t *Table) commitInput(ctx context.Context, key string) error {
	bound := t.binds.Get(key)
	if len(bound) == 0 || bound[0].IsEmpty() {
		t.filters.Delete(key)
		return t.commitFilters(ctx)
	}
	text := bound[0].Operand()
	var v query.Value
	if op := t.operators[key]; op != query.OpNone {
		v = query.Compare(op, text)
	} else {
		var err error
		if v, err = query.FromRaw(text); err != nil {
			return err
		}
		if v.Kind() == query.KindComparison {
			t.operators[key] = v.Operator()
			t.binds.Set(key, v.Undecorated())
		}
	}
	t.filters.Set(key, v)
	return t.commitFilters(ctx)
}

// Operator returns the comparison operator selected for a column.
func (t *Table) Operator(key string) query.Operator {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.operators[key]
}

// SetOperator selects the comparison operator of an input column. When the
// input holds a value it is recommitted at once.
func (t *Table) SetOperator(ctx context.Context, key string, op query.Operator) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.column(key)
	if err != nil {
		return err
	}
	if c.FilterType != Input {
		return fmt.Errorf("%w: %s is %q", ErrWrongWidget, key, c.FilterType)
	}
	if op == query.OpNone || !op.Valid() {
		delete(t.operators, key)
	} else {
		t.operators[key] = op
	}
	if !t.binds.Has(key) {
		return nil
	}
	dk := inputKey(key)
	t.debouncer.Flush(dk)
	t.bump(dk)
	return t.commitInput(ctx, key)
}

// SetDateRange filters a date column by a range. An empty range clears it.
func (t *Table) SetDateRange(ctx context.Context, key, start, end string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.column(key)
	if err != nil {
		return err
	}
	if !c.FilterType.IsRange() {
		return fmt.Errorf("%w: %s is %q", ErrWrongWidget, key, c.FilterType)
	}
	if start == "" && end == "" {
		t.clear(key)
		return t.commitFilters(ctx)
	}
	v := query.Range(start, end)
	t.binds.Set(key, v)
	t.filters.Set(key, v)
	return t.commitFilters(ctx)
}

// ClearDateRange removes the range of a date column.
func (t *Table) ClearDateRange(ctx context.Context, key string) error {
	return t.SetDateRange(ctx, key, "", "")
}

// SetChecked replaces the checked options of a checkbox column.
func (t *Table) SetChecked(ctx context.Context, key string, raws ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.column(key)
	if err != nil {
		return err
	}
	if c.FilterType != Checkbox {
		return fmt.Errorf("%w: %s is %q", ErrWrongWidget, key, c.FilterType)
	}
	values := make([]query.Value, 0, len(raws))
	for _, raw := range raws {
		v, err := query.FromRaw(raw)
		if err != nil {
			return fmt.Errorf("checkbox %s: %w", key, err)
		}
		values = append(values, v)
	}
	t.binds.Set(key, values...)
	t.filters.Set(key, values...)
	return t.commitFilters(ctx)
}

// SetRadio selects the option of a radio column.
func (t *Table) SetRadio(ctx context.Context, key string, raw any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.column(key)
	if err != nil {
		return err
	}
	if c.FilterType != Radio {
		return fmt.Errorf("%w: %s is %q", ErrWrongWidget, key, c.FilterType)
	}
	v, err := query.FromRaw(raw)
	if err != nil {
		return fmt.Errorf("radio %s: %w", key, err)
	}
	t.binds.Set(key, v)
	t.filters.Set(key, v)
	return t.commitFilters(ctx)
}

func (t *Table) clear(key string) {
	dk := inputKey(key)
	t.debouncer.Flush(dk)
	t.bump(dk)
	t.binds.Delete(key)
	t.filters.Delete(key)
	delete(t.operators, key)
}

// ClearColumn removes every filter of a column.
func (t *Table) ClearColumn(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.column(key); err != nil {
		return err
	}
	t.clear(key)
	return t.commitFilters(ctx)
}

// ClearAll removes every filter. Text and sort are kept.
func (t *Table) ClearAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, key := range t.filters.Keys() {
		t.clear(key)
	}
	for _, key := range t.binds.Keys() {
		t.clear(key)
	}
	return t.commitFilters(ctx)
}

// Sort returns the "field DIRECTION" selector, or "".
func (t *Table) Sort() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sort
}

// SetSort sorts by a sortable column and returns to the first page.
func (t *Table) SetSort(ctx context.Context, field string, dir types.Direction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.columns[field]; !ok || !c.Sortable {
		return fmt.Errorf("%w: %s", ErrNotSortable, field)
	}
	if !dir.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSort, dir)
	}
	t.sort = types.JoinSort(field, string(dir))
	delta := route.Delta{route.KeySort: field, route.KeyDirection: string(dir)}
	t.resetPage(delta)
	t.loc.Write(delta)
	t.submit(ctx)
	return nil
}

// ClearSort removes the sort. The page is reset only when a sort was active.
func (t *Table) ClearSort(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delta := route.Delta{route.KeySort: "", route.KeyDirection: "", route.KeyField: ""}
	if t.sort != "" {
		t.resetPage(delta)
	}
	t.sort = ""
	t.loc.Write(delta)
	t.submit(ctx)
}

// ToggleTag toggles a clicked tag value in the column's filter set. It
// reports whether the value is filtered afterwards.
func (t *Table) ToggleTag(ctx context.Context, key string, raw any) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.column(key); err != nil {
		return false, err
	}
	v, err := query.FromRaw(raw)
	if err != nil {
		return false, fmt.Errorf("tag %s: %w", key, err)
	}
	present := t.filters.Toggle(key, v)
	t.resyncColumn(key)
	return present, t.commitFilters(ctx)
}

// RemoveActive closes an active filter chip. Closing a range removes the column.
func (t *Table) RemoveActive(ctx context.Context, key string, v query.Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filters.Has(key) {
		return nil
	}
	if v.Kind() == query.KindRange {
		t.clear(key)
	} else {
		t.filters.Remove(key, v)
		t.resyncColumn(key)
	}
	return t.commitFilters(ctx)
}

// resyncColumn mirrors one column's filters into its bind values.
func (t *Table) resyncColumn(key string) {
	values := t.filters.Get(key)
	if len(values) == 0 {
		t.binds.Delete(key)
		delete(t.operators, key)
		return
	}
	bound := make([]query.Value, 0, len(values))
	for _, v := range values {
		bound = append(bound, v.Undecorated())
	}
	t.binds.Set(key, bound...)
}

// ActiveFilters lists the committed filters as chips, in insertion order.
func (t *Table) ActiveFilters() []Chip {
	t.mu.Lock()
	defer t.mu.Unlock()
	var chips []Chip
	t.filters.Range(func(key string, values []query.Value) bool {
		title := t.columns[key].DisplayTitle()
		for _, v := range values {
			chips = append(chips, Chip{Column: key, Title: title, Label: v.Label(), Value: v})
		}
		return true
	})
	return chips
}

// Filters returns a copy of the committed filters.
func (t *Table) Filters() query.Filters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filters.Clone()
}

// BindValues returns a copy of what the widgets display.
func (t *Table) BindValues() query.Filters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.binds.Clone()
}

// Variables returns the current fetch variables.
func (t *Table) Variables() query.Variables {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vars.Clone()
}

// HandleKey runs the page change bound to key, if any.
func (t *Table) HandleKey(ctx context.Context, key string) (bool, error) {
	t.mu.Lock()
	p := t.pager
	t.mu.Unlock()
	return paging.Trigger(ctx, p, nil, key)
}
