package paging

import (
	"context"
	"strings"
)

// KeyMap binds key chords to page directions.
type KeyMap map[string]Direction

// DefaultKeyMap pages backward with j and forward with k, with or without cmd.
var DefaultKeyMap = KeyMap{
	"j":     Prev,
	"cmd+j": Prev,
	"k":     Next,
	"cmd+k": Next,
}

// Lookup normalises a chord such as "Cmd+K" and returns its direction.
func (m KeyMap) Lookup(key string) (Direction, bool) {
	d, ok := m[strings.ToLower(strings.ReplaceAll(key, " ", ""))]
	return d, ok
}

// Trigger runs the page change bound to key. It reports whether key was bound.
func Trigger(ctx context.Context, p Pager, m KeyMap, key string) (bool, error) {
	if m == nil {
		m = DefaultKeyMap
	}
	d, ok := m.Lookup(key)
	if !ok || p == nil {
		return false, nil
	}
	if d == Prev {
		return true, p.Prev(ctx)
	}
	return true, p.Next(ctx)
}
