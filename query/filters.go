package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Filters maps column keys to ordered value sequences. Values within a column
// are OR-ed by the backend. Key and value insertion order is preserved,
// including through JSON, so the serialized query is stable.
//
// A column whose value sequence becomes empty is deleted.
type Filters struct {
	keys   []string
	values map[string][]Value
}

// NewFilters returns an empty Filters.
func NewFilters() Filters {
	return Filters{values: map[string][]Value{}}
}

// Len returns the number of columns holding values.
func (f Filters) Len() int { return len(f.keys) }

// Keys returns the column keys in insertion order.
func (f Filters) Keys() []string { return slices.Clone(f.keys) }

// Has reports whether the column holds values.
func (f Filters) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Get returns a copy of the column's values.
func (f Filters) Get(key string) []Value {
	return slices.Clone(f.values[key])
}

// Clone returns a deep copy; mutations on the copy never reach f.
func (f Filters) Clone() Filters {
	out := Filters{keys: slices.Clone(f.keys), values: make(map[string][]Value, len(f.values))}
	for k, v := range f.values {
		out.values[k] = slices.Clone(v)
	}
	return out
}

// Set replaces the column's values, keeping its position if already present.
// Empty values delete the column.
func (f *Filters) Set(key string, values ...Value) {
	if len(values) == 0 {
		f.Delete(key)
		return
	}
	if f.values == nil {
		f.values = map[string][]Value{}
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = slices.Clone(values)
}

// Delete removes the column.
func (f *Filters) Delete(key string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	f.keys = slices.DeleteFunc(f.keys, func(k string) bool { return k == key })
}

// Contains reports whether the column holds a value equal to v.
func (f Filters) Contains(key string, v Value) bool {
	return slices.IndexFunc(f.values[key], v.Equal) >= 0
}

// Toggle adds v to the column when absent and removes it when present,
// deleting the column once empty. It reports whether v is now present.
func (f *Filters) Toggle(key string, v Value) bool {
	current := f.values[key]
	if idx := slices.IndexFunc(current, v.Equal); idx >= 0 {
		f.Set(key, slices.Delete(slices.Clone(current), idx, idx+1)...)
		return false
	}
	f.Set(key, append(slices.Clone(current), v)...)
	return true
}

// Remove deletes every value equal to v from the column.
func (f *Filters) Remove(key string, v Value) {
	current := f.values[key]
	if len(current) == 0 {
		return
	}
	f.Set(key, slices.DeleteFunc(slices.Clone(current), v.Equal)...)
}

// Retain drops every column for which keep returns false and reports the dropped keys.
func (f *Filters) Retain(keep func(key string) bool) []string {
	var dropped []string
	for _, k := range f.Keys() {
		if !keep(k) {
			f.Delete(k)
			dropped = append(dropped, k)
		}
	}
	return dropped
}

// Range calls fn for each column in insertion order.
func (f Filters) Range(fn func(key string, values []Value) bool) {
	for _, k := range f.keys {
		if !fn(k, f.values[k]) {
			return
		}
	}
}

// Equal reports whether both hold the same columns, in the same order, with equal values.
func (f Filters) Equal(o Filters) bool {
	if !slices.Equal(f.keys, o.keys) {
		return false
	}
	for _, k := range f.keys {
		if !slices.EqualFunc(f.values[k], o.values[k], Value.Equal) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes an object whose keys follow insertion order.
func (f Filters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		vals, err := marshalJSON(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON encodes v like json.Marshal but leaves '<', '>' and '&' as they
// are, so operators read the same in the location as they were typed.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes an object of arrays, keeping the key order of the
// document. Columns with empty arrays are skipped.
func (f *Filters) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = NewFilters()
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("filters must be a JSON object, got %v", tok)
	}

	out := NewFilters()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected filter key %v", tok)
		}
		var raws []any
		if err := dec.Decode(&raws); err != nil {
			return fmt.Errorf("filter %q: %w", key, err)
		}
		values := make([]Value, 0, len(raws))
		for _, raw := range raws {
			v, err := FromRaw(raw)
			if err != nil {
				return fmt.Errorf("filter %q: %w", key, err)
			}
			values = append(values, v)
		}
		out.Set(key, values...)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}
