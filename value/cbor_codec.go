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

import "github.com/fxamacker/cbor/v2"

// CborCodec handles CBOR's native representation, including first-class
// byte strings and integer widths, via github.com/fxamacker/cbor/v2.
type CborCodec struct{}

func (CborCodec) Supports(f Format) bool {
	return f == CBOR || f == Unknown || f == OctetStream
}

func (CborCodec) Encode(v Value, f Format) ([]byte, error) {
	b, err := cbor.Marshal(toNative(v))
	if err != nil {
		return nil, &EncodeError{Codec: "cbor", Reason: err.Error()}
	}
	return b, nil
}

func (CborCodec) Decode(b []byte, f Format) (Value, error) {
	var out interface{}
	if err := cbor.Unmarshal(b, &out); err != nil {
		return Value{}, &DecodeError{Codec: "cbor", Position: -1, Reason: err.Error()}
	}
	return fromNative(out), nil
}

// toNative unpacks a Value into the plain Go types the cbor and msgpack
// libraries expect. Maps become map[string]interface{}: both libraries
// encode a Go map's keys in their own canonical order rather than our
// OrderedMap's insertion order, so -- unlike JSONCodec -- a CBOR/MsgPack
// round trip preserves a map's key/value pairs but not necessarily their
// original order (the round-trip tests for these two codecs therefore
// compare with the order-insensitive EqualUnordered).
func toNative(v Value) interface{} {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat:
		return v.Float()
	case KindString:
		return v.String()
	case KindBytes:
		return v.Bytes()
	case KindSlice:
		out := make([]interface{}, len(v.Slice()))
		for i, e := range v.Slice() {
			out[i] = toNative(e)
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, v.Map().Len())
		for _, k := range v.Map().Keys() {
			val, _ := v.Map().Get(k)
			out[k] = toNative(val)
		}
		return out
	}
	return nil
}

func fromNative(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return NewNil()
	case bool:
		return NewBool(t)
	case int64:
		return NewInt(t)
	case uint64:
		return NewInt(int64(t))
	case int:
		return NewInt(int64(t))
	case float32:
		return NewFloat(float64(t))
	case float64:
		return NewFloat(t)
	case string:
		return NewString(t)
	case []byte:
		return NewBytes(t)
	case []interface{}:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = fromNative(e)
		}
		return NewSlice(out)
	case map[string]interface{}:
		m := NewOrderedMap()
		for k, val := range t {
			m.Set(k, fromNative(val))
		}
		return NewMap(m)
	case map[interface{}]interface{}:
		m := NewOrderedMap()
		for k, val := range t {
			m.Set(toMapKey(k), fromNative(val))
		}
		return NewMap(m)
	}
	return NewNil()
}

func toMapKey(x interface{}) string {
	if s, ok := x.(string); ok {
		return s
	}
	return ""
}
