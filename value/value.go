/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package value

import "fmt"

// Kind tags which branch of the union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindSlice
	KindMap
)

// Value is the recursive tagged union the codec layer translates to and
// from bytes: null, bool, integer, float, string, byte-sequence, an
// ordered sequence of Value, or an insertion-ordered string->Value map.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	bytes  []byte
	slice  []Value
	mp     *OrderedMap
}

func NewNil() Value               { return Value{kind: KindNull} }
func NewBool(b bool) Value        { return Value{kind: KindBool, b: b} }
func NewInt(i int64) Value        { return Value{kind: KindInt, i: i} }
func NewFloat(f float64) Value    { return Value{kind: KindFloat, f: f} }
func NewString(s string) Value    { return Value{kind: KindString, s: s} }
func NewBytes(b []byte) Value     { return Value{kind: KindBytes, bytes: b} }
func NewSlice(v []Value) Value    { return Value{kind: KindSlice, slice: v} }
func NewMap(m *OrderedMap) Value  { return Value{kind: KindMap, mp: m} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNull }

func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNull:
		return ""
	default:
		return fmt.Sprint(v.Any())
	}
}
func (v Value) Bytes() []byte { return v.bytes }
func (v Value) Slice() []Value { return v.slice }
func (v Value) Map() *OrderedMap { return v.mp }

// Any unpacks a Value to the closest native Go representation; mostly a
// debugging/logging convenience, not used on the codec hot path.
func (v Value) Any() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.bytes
	case KindSlice:
		out := make([]interface{}, len(v.slice))
		for i, e := range v.slice {
			out[i] = e.Any()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, v.mp.Len())
		for _, k := range v.mp.Keys() {
			val, _ := v.mp.Get(k)
			out[k] = val.Any()
		}
		return out
	}
	return nil
}

// Equal performs a structural deep comparison, used by codec round-trip
// tests (spec.md §8 property 3).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindBytes:
		if len(a.bytes) != len(b.bytes) {
			return false
		}
		for i := range a.bytes {
			if a.bytes[i] != b.bytes[i] {
				return false
			}
		}
		return true
	case KindSlice:
		if len(a.slice) != len(b.slice) {
			return false
		}
		for i := range a.slice {
			if !Equal(a.slice[i], b.slice[i]) {
				return false
			}
		}
		return true
	case KindMap:
		ak, bk := a.mp.Keys(), b.mp.Keys()
		if len(ak) != len(bk) {
			return false
		}
		for i, k := range ak {
			if k != bk[i] {
				return false
			}
			av, _ := a.mp.Get(k)
			bv, _ := b.mp.Get(k)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// EqualUnordered compares two Values the way Equal does, except KindMap
// comparisons ignore key order and only check that both maps hold the
// same key/value pairs. Codecs that do not guarantee map order survival
// (CborCodec, MessagePackCodec) are round-trip tested against this
// instead of Equal.
func EqualUnordered(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind != KindMap {
		if a.kind == KindSlice {
			if len(a.slice) != len(b.slice) {
				return false
			}
			for i := range a.slice {
				if !EqualUnordered(a.slice[i], b.slice[i]) {
					return false
				}
			}
			return true
		}
		return Equal(a, b)
	}
	if a.mp.Len() != b.mp.Len() {
		return false
	}
	for _, k := range a.mp.Keys() {
		av, _ := a.mp.Get(k)
		bv, ok := b.mp.Get(k)
		if !ok || !EqualUnordered(av, bv) {
			return false
		}
	}
	return true
}

// OrderedMap is a string->Value map that remembers insertion order so
// codecs re-encode objects deterministically (spec.md §3).
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value)}
}

func (m *OrderedMap) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) Len() int { return len(m.keys) }
