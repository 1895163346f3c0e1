// SPDX-License-Identifier: Apache-2.0

package search

import (
	"github.com/xataio/searchadapter/internal/json"
)

// BoostField is the reserved field name carrying the document boost.
const BoostField = "_boost"

// Fields is an insertion ordered set of document field values. Setting an
// existing name overwrites its value without changing its position.
type Fields struct {
	names  []string
	values map[string]any
}

func NewFields() *Fields {
	return &Fields{
		names:  []string{},
		values: map[string]any{},
	}
}

func (f *Fields) Set(name string, value any) {
	if _, found := f.values[name]; !found {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

func (f *Fields) Get(name string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, found := f.values[name]
	return v, found
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// Names returns the field names in insertion order.
func (f *Fields) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// Range calls fn for every field in insertion order, stopping when fn returns
// false.
func (f *Fields) Range(fn func(name string, value any) bool) {
	if f == nil {
		return
	}
	for _, name := range f.names {
		if !fn(name, f.values[name]) {
			return
		}
	}
}

// Map returns a copy of the fields as a plain map.
func (f *Fields) Map() map[string]any {
	m := make(map[string]any, f.Len())
	f.Range(func(name string, value any) bool {
		m[name] = value
		return true
	})
	return m
}

// MarshalJSON encodes the fields as a JSON object keeping insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	var err error
	f.Range(func(name string, value any) bool {
		if len(buf) > 1 {
			buf = append(buf, ',')
		}
		var k, v []byte
		if k, err = json.Marshal(name); err != nil {
			return false
		}
		if v, err = json.Marshal(value); err != nil {
			return false
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
		return true
	})
	if err != nil {
		return nil, err
	}
	return append(buf, '}'), nil
}
