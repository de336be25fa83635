package route

import (
	"net/url"
	"sync"
)

// Location is the browsing location the route state is mirrored into.
type Location interface {
	// Read returns a copy of the current query values.
	Read() url.Values
	// Write merges delta into the current values and pushes a history entry.
	Write(delta Delta)
	// Push replaces the values entirely and pushes a history entry.
	Push(values url.Values)
}

// MemoryLocation is a Location backed by an in-memory history stack.
type MemoryLocation struct {
	mu      sync.RWMutex
	path    string
	current url.Values
	history []string
}

// NewMemoryLocation creates a location at path with the given initial query string.
func NewMemoryLocation(path, rawQuery string) *MemoryLocation {
	values, err := url.ParseQuery(trimQuestion(rawQuery))
	if err != nil {
		values = url.Values{}
	}
	return &MemoryLocation{path: path, current: values}
}

// Read implements Location.
func (l *MemoryLocation) Read() url.Values {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneValues(l.current)
}

// Write implements Location.
func (l *MemoryLocation) Write(delta Delta) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = Merge(l.current, delta)
	l.history = append(l.history, l.href())
}

// Push implements Location.
func (l *MemoryLocation) Push(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = cloneValues(values)
	l.history = append(l.history, l.href())
}

// String returns the current href: the path, followed by '?' and the sorted
// query when there is one.
func (l *MemoryLocation) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.href()
}

// History returns the pushed hrefs, oldest first.
func (l *MemoryLocation) History() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.history...)
}

func (l *MemoryLocation) href() string {
	if len(l.current) == 0 {
		return l.path
	}
	return l.path + "?" + l.current.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func trimQuestion(s string) string {
	if len(s) > 0 && s[0] == '?' {
		return s[1:]
	}
	return s
}
