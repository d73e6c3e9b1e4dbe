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

import (
	"hash/maphash"
	"strconv"
)

// Tag identifies the type carried by the first link of a value's
// attribute chain.
type Tag uint8

const (
	TagString Tag = iota
	TagInteger
	TagList
	TagMap
	TagFunction
	TagStruct
	TagPointer
	TagGeneric
)

func (t Tag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagInteger:
		return "integer"
	case TagList:
		return "list"
	case TagMap:
		return "map"
	case TagFunction:
		return "function"
	case TagStruct:
		return "struct"
	case TagPointer:
		return "pointer"
	case TagGeneric:
		return "generic"
	default:
		return "?"
	}
}

// List is the interface satisfied by every list backing representation:
// a flat array, or (see pkg/pseq) a persistent fixed-fanout tree.
type List interface {
	Len() int
	Index(i int) Value
}

type flatList []Value

func (f flatList) Len() int          { return len(f) }
func (f flatList) Index(i int) Value { return f[i] }

// Pointer is the payload of a TagPointer value: an opaque handle plus the
// name of the type it refers to, for diagnostic purposes only.
type Pointer struct {
	TypeName string
	Handle   any
}

// Value is an immutable, tagged dynamic value. The zero Value is the
// absent string.
//
// Rather than hand-packing a 128-bit datum the way the reference runtime
// does (an optimisation for a C ABI with no GC-aware tagged pointers),
// the Go payload is carried through a plain interface field; an
// interface value is already exactly the "attribute tag plus up to two
// machine words" pair the model calls for; Go just does the in-memory
// packing for us.
type Value struct {
	tag     Tag
	payload any
}

// Tag returns the type tag of v.
func (v Value) Tag() Tag { return v.tag }

// OfString wraps a String as a value.
func OfString(s String) Value { return Value{tag: TagString, payload: s} }

// AsString returns the String payload of v. Panics if v is not a string.
func (v Value) AsString() String {
	if v.tag != TagString {
		panic("value: AsString on non-string value")
	}

	s, _ := v.payload.(String) // a nil payload is the zero Value: the absent string

	return s
}

// OfInteger wraps an int64 as a value.
func OfInteger(i int64) Value { return Value{tag: TagInteger, payload: i} }

// AsInteger returns the int64 payload of v. Panics if v is not an integer.
func (v Value) AsInteger() int64 {
	if v.tag != TagInteger {
		panic("value: AsInteger on non-integer value")
	}

	return v.payload.(int64)
}

// OfList wraps a List as a value.
func OfList(l List) Value { return Value{tag: TagList, payload: l} }

// OfValues builds a list value from a flat slice of elements.
func OfValues(vs ...Value) Value { return OfList(flatList(vs)) }

// AsList returns the List payload of v. Panics if v is not a list.
func (v Value) AsList() List {
	if v.tag != TagList {
		panic("value: AsList on non-list value")
	}

	return v.payload.(List)
}

// OfMap wraps a Map as a value.
func OfMap(m *Map) Value { return Value{tag: TagMap, payload: m} }

// AsMap returns the Map payload of v. Panics if v is not a map.
func (v Value) AsMap() *Map {
	if v.tag != TagMap {
		panic("value: AsMap on non-map value")
	}

	return v.payload.(*Map)
}

// OfPointer wraps a Pointer as a value.
func OfPointer(p Pointer) Value { return Value{tag: TagPointer, payload: p} }

// AsPointer returns the Pointer payload of v. Panics if v is not a
// pointer.
func (v Value) AsPointer() Pointer {
	if v.tag != TagPointer {
		panic("value: AsPointer on non-pointer value")
	}

	return v.payload.(Pointer)
}

// OfGeneric wraps an arbitrary payload under TagGeneric, for extension
// types that don't warrant a dedicated tag (mirrors the reference value
// model's open-ended attribute chain).
func OfGeneric(name string, payload any) Value {
	return Value{tag: TagGeneric, payload: genericPayload{name: name, payload: payload}}
}

type genericPayload struct {
	name    string
	payload any
}

// AsGeneric returns the type name and payload of a generic value. Panics
// if v is not generic.
func (v Value) AsGeneric() (string, any) {
	if v.tag != TagGeneric {
		panic("value: AsGeneric on non-generic value")
	}

	g := v.payload.(genericPayload)

	return g.name, g.payload
}

// Stringify converts v to its string representation. Every tag defines
// its own conversion, mirroring the reference runtime's per-trait
// to_string function.
func Stringify(v Value) String {
	switch v.tag {
	case TagString:
		return v.AsString()
	case TagInteger:
		return StringOf(strconv.FormatInt(v.AsInteger(), 10))
	case TagList:
		l := v.AsList()

		parts := make([]String, l.Len())
		for i := 0; i < l.Len(); i++ {
			parts[i] = Stringify(l.Index(i))
		}

		return joinStrings(parts)
	case TagMap:
		m := v.AsMap()

		parts := make([]String, 0, 2*m.Len())
		for i := 0; i < m.Len(); i++ {
			k, val := m.At(i)
			parts = append(parts, Stringify(k), Stringify(val))
		}

		return joinStrings(parts)
	case TagFunction:
		return StringOf("<function>")
	case TagStruct:
		return StringOf("<struct>")
	case TagPointer:
		p := v.payload.(Pointer)
		return StringOf("<pointer:" + p.TypeName + ">")
	case TagGeneric:
		name, _ := v.AsGeneric()
		return StringOf("<" + name + ">")
	default:
		return AbsentString()
	}
}

func joinStrings(parts []String) String {
	out := EmptyString()
	for i, p := range parts {
		if i > 0 {
			out = Concat(out, StringOf(" "))
		}

		out = Concat(out, p)
	}

	return out
}

var hashSeed = maphash.MakeSeed()

// Hash computes a process-randomised hash of v, consistent within a
// single process but not across processes or machines, so that callers
// cannot rely on specific values and cannot mount a hash-flooding attack
// by observing hashes across runs. Mirrors the reference runtime's
// siphash-over-the-stringified-value approach, using the standard
// library's hash/maphash (seeded randomly per process; not itself SipHash)
// rather than reimplementing SipHash by hand.
func Hash(v Value) uint64 {
	var h maphash.Hash

	h.SetSeed(hashSeed)
	h.WriteString(Stringify(v).Force())

	return h.Sum64()
}

// Equal reports whether a and b are equal, by comparing their
// stringified forms (mirroring ava_value_equal's semantics: two values
// are equal iff they stringify identically).
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Compare orders a and b by their stringified forms.
func Compare(a, b Value) int {
	return StringCompare(Stringify(a), Stringify(b))
}
