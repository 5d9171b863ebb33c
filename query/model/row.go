package model

import (
	"bytes"
	"encoding/json"
)

// Row is a flat, insertion-ordered mapping from column name to Value.
// The zero Row is empty and ready to use.
type Row struct {
	keys []string
	vals map[string]Value
}

// R builds a row from alternating name/value pairs, converting values with Of.
//
//	model.R("firstName", "Piet", "birthYear", 1956)
func R(pairs ...any) *Row {
	if len(pairs)%2 != 0 {
		panic("model.R: odd number of arguments")
	}
	r := &Row{}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("model.R: column name must be a string")
		}
		r.Set(name, Of(pairs[i+1]))
	}
	return r
}

// RowFromMap builds a row from a map. Key order follows the order slice;
// keys missing from order are not copied.
func RowFromMap(m map[string]any, order []string) *Row {
	r := &Row{}
	for _, k := range order {
		if v, ok := m[k]; ok {
			r.Set(k, Of(v))
		}
	}
	return r
}

// Len returns the number of columns, absent ones included.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the column names in insertion order.
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Has reports whether the row carries the column, even if it is absent.
func (r *Row) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.vals[name]
	return ok
}

// Get returns the value of a column.
func (r *Row) Get(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.vals[name]
	return v, ok
}

// Value returns the value of a column, or Absent when it is missing.
func (r *Row) Value(name string) Value {
	v, _ := r.Get(name)
	return v
}

// Set assigns a column. An existing column keeps its position.
func (r *Row) Set(name string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.vals[name] = v
}

// Delete removes a column.
func (r *Row) Delete(name string) {
	if !r.Has(name) {
		return
	}
	delete(r.vals, name)
	for i, k := range r.keys {
		if k == name {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a copy that shares nothing with r.
func (r *Row) Clone() *Row {
	out := &Row{}
	if r == nil {
		return out
	}
	out.keys = make([]string, len(r.keys))
	copy(out.keys, r.keys)
	out.vals = make(map[string]Value, len(r.vals))
	for k, v := range r.vals {
		out.vals[k] = v
	}
	return out
}

// Merge copies every column of other into r, overwriting on collision.
func (r *Row) Merge(other *Row) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		r.Set(k, other.vals[k])
	}
}

// Each calls fn for every column in order.
func (r *Row) Each(fn func(name string, v Value)) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		fn(k, r.vals[k])
	}
}

// Map returns the row as a plain map of driver-ready values. Absent columns are dropped.
func (r *Row) Map() map[string]any {
	out := make(map[string]any, r.Len())
	r.Each(func(name string, v Value) {
		if !v.IsAbsent() {
			out[name] = v.Interface()
		}
	})
	return out
}

// MarshalJSON encodes the row as an object in column order, omitting absent columns.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	r.Each(func(name string, v Value) {
		if err != nil || v.IsAbsent() {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var kb, vb []byte
		if kb, err = json.Marshal(name); err != nil {
			return
		}
		if vb, err = json.Marshal(v); err != nil {
			return
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
