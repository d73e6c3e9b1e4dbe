// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package value

// Map is a semantic ordered mapping from values to values: keys may be
// any value (compared by their stringified form, as values have no other
// general equality test), and insertion order is preserved. Like every
// other value, a Map is immutable: Put returns a new Map rather than
// mutating the receiver.
type Map struct {
	keys []Value
	vals []Value
	idx  map[string]int
}

// NewMap returns the empty map.
func NewMap() *Map {
	return &Map{idx: make(map[string]int)}
}

// Len returns the number of entries in m.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// At returns the key/value pair at position i in insertion order.
func (m *Map) At(i int) (Value, Value) {
	return m.keys[i], m.vals[i]
}

// Get looks up key, returning its value and whether it was present.
func (m *Map) Get(key Value) (Value, bool) {
	if m == nil {
		return Value{}, false
	}

	i, ok := m.idx[Stringify(key).Force()]
	if !ok {
		return Value{}, false
	}

	return m.vals[i], true
}

// Put returns a new Map with key bound to val: if key is already present,
// its existing slot's value is replaced in place (preserving its
// original position); otherwise the entry is appended.
func (m *Map) Put(key, val Value) *Map {
	keyStr := Stringify(key).Force()

	out := &Map{
		keys: make([]Value, len(m.keys), len(m.keys)+1),
		vals: make([]Value, len(m.vals), len(m.vals)+1),
		idx:  make(map[string]int, len(m.idx)+1),
	}

	copy(out.keys, m.keys)
	copy(out.vals, m.vals)

	for k, v := range m.idx {
		out.idx[k] = v
	}

	if i, ok := out.idx[keyStr]; ok {
		out.vals[i] = val
		return out
	}

	out.idx[keyStr] = len(out.keys)
	out.keys = append(out.keys, key)
	out.vals = append(out.vals, val)

	return out
}

// Delete returns a new Map with key removed, if present, preserving the
// relative order of the remaining entries.
func (m *Map) Delete(key Value) *Map {
	keyStr := Stringify(key).Force()

	i, ok := m.idx[keyStr]
	if !ok {
		return m
	}

	out := &Map{
		keys: make([]Value, 0, len(m.keys)-1),
		vals: make([]Value, 0, len(m.vals)-1),
		idx:  make(map[string]int, len(m.idx)-1),
	}

	for j := range m.keys {
		if j == i {
			continue
		}

		out.idx[Stringify(m.keys[j]).Force()] = len(out.keys)
		out.keys = append(out.keys, m.keys[j])
		out.vals = append(out.vals, m.vals[j])
	}

	return out
}
