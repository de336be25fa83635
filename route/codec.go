package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	qs "github.com/google/go-querystring/query"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/types"
)

// Location query-string keys.
const (
	KeyQuery     = "query"
	KeyFilter    = "filter"
	KeySort      = "sort"
	KeyField     = "field" // accepted on decode as an alias of sort
	KeyDirection = "direction"
	KeyAfter     = "after"
	KeyBefore    = "before"
)

// emptyObject is the decoded form of an empty filter payload.
const emptyObject = "{}"

// ErrMalformedFilter is returned by Decode when the filter payload is not
// URL-encoded JSON. The returned State is still usable, with empty filters.
var ErrMalformedFilter = errors.New("malformed filter payload")

// AllowList is the set of keys mirrored between state and location.
var AllowList = []string{KeyQuery, KeyFilter, KeySort, KeyField, KeyDirection, KeyAfter, KeyBefore}

func allowed(key string) bool {
	for _, k := range AllowList {
		if k == key {
			return true
		}
	}
	return false
}

// Params is the flat route state as written to the location.
type Params struct {
	Query     string `url:"query,omitempty"`
	Filter    string `url:"filter,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Direction string `url:"direction,omitempty"`
	After     string `url:"after,omitempty"`
	Before    string `url:"before,omitempty"`
}

// Values converts the params into url values, dropping empty keys.
func (p Params) Values() url.Values {
	v, err := qs.Values(p)
	if err != nil {
		// Params only holds strings; encoding cannot fail.
		return url.Values{}
	}
	return v
}

// State is the in-memory state mirrored into the location.
type State struct {
	Query     string
	Filters   query.Filters
	Sort      string
	Direction string
	After     string
	Before    string
}

// SortSelector returns "field DIRECTION", or "" when either part is missing.
func (s State) SortSelector() string {
	return types.JoinSort(s.Sort, s.Direction)
}

// Equal reports whether both states encode identically.
func (s State) Equal(o State) bool {
	return s.Query == o.Query && s.Sort == o.Sort && s.Direction == o.Direction &&
		s.After == o.After && s.Before == o.Before && s.Filters.Equal(o.Filters)
}

// EncodeFilters renders filters as URL-encoded JSON, or "" when empty.
func EncodeFilters(f query.Filters) (string, error) {
	if f.Len() == 0 {
		return "", nil
	}
	// json.Marshal would HTML-escape the operators again.
	data, err := f.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode filters: %w", err)
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeFilters parses a URL-encoded JSON filter payload.
func DecodeFilters(payload string) (query.Filters, error) {
	if payload == "" {
		return query.NewFilters(), nil
	}
	raw, err := url.QueryUnescape(payload)
	if err != nil {
		return query.NewFilters(), fmt.Errorf("%w: %v", ErrMalformedFilter, err)
	}
	var f query.Filters
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return query.NewFilters(), fmt.Errorf("%w: %v", ErrMalformedFilter, err)
	}
	return f, nil
}

// ToParams converts state to its flat form.
func ToParams(s State) (Params, error) {
	filter, err := EncodeFilters(s.Filters)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Query:     s.Query,
		Filter:    filter,
		Sort:      s.Sort,
		Direction: s.Direction,
		After:     s.After,
		Before:    s.Before,
	}, nil
}

// Encode renders state as a location query string without the leading '?'.
// Keys are sorted, so encoding is deterministic.
func Encode(s State) (string, error) {
	p, err := ToParams(s)
	if err != nil {
		return "", err
	}
	return p.Values().Encode(), nil
}

// Decode parses a location query string, with or without the leading '?'.
// Keys outside the allow-list are ignored. A malformed filter payload yields
// empty filters and ErrMalformedFilter; every other key is still restored.
func Decode(location string) (State, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(location, "?"))
	if err != nil {
		return State{Filters: query.NewFilters()}, fmt.Errorf("parse location: %w", err)
	}
	return FromValues(values)
}

// FromValues restores state from parsed location values.
func FromValues(values url.Values) (State, error) {
	s := State{
		Query:     values.Get(KeyQuery),
		Sort:      values.Get(KeySort),
		Direction: values.Get(KeyDirection),
		After:     values.Get(KeyAfter),
		Before:    values.Get(KeyBefore),
	}
	if s.Sort == "" {
		s.Sort = values.Get(KeyField)
	}
	f, err := DecodeFilters(values.Get(KeyFilter))
	s.Filters = f
	return s, err
}

// Delta is a set of changes merged into the location. An empty value, or one
// whose decoded form is the empty object, deletes the key.
type Delta map[string]string

// Merge applies delta over current and returns the new values; current is not
// modified. Only allow-listed keys of the delta are applied, every other key
// already present survives.
func Merge(current url.Values, delta Delta) url.Values {
	out := url.Values{}
	for k, v := range current {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range delta {
		if !allowed(k) {
			continue
		}
		if isEmptyValue(v) {
			out.Del(k)
			continue
		}
		out.Set(k, v)
	}
	return out
}

func isEmptyValue(v string) bool {
	if v == "" {
		return true
	}
	decoded, err := url.QueryUnescape(v)
	return err == nil && decoded == emptyObject
}

// FilterDelta returns the delta writing filters into the location.
func FilterDelta(f query.Filters) (Delta, error) {
	payload, err := EncodeFilters(f)
	if err != nil {
		return nil, err
	}
	return Delta{KeyFilter: payload}, nil
}
