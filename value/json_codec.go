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

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// bytesMarkerKey is the sentinel object key JSONCodec uses to round-trip
// Value::Bytes through JSON, which has no native binary type (spec.md §3,
// §9: "the codec decides and documents"). An object decoding to exactly
// {bytesMarkerKey: <string>} becomes a Value::Bytes; any other object
// becomes a Value::Map.
const bytesMarkerKey = "$bytes"

// JSONCodec is the baseline codec: UTF-8 JSON, preserving object key
// order on both encode and decode.
type JSONCodec struct{}

func (JSONCodec) Supports(f Format) bool {
	return f == JSON || f == Unknown || f == OctetStream
}

func (JSONCodec) Encode(v Value, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSONValue(&buf, v); err != nil {
		return nil, &EncodeError{Codec: "json", Reason: err.Error()}
	}
	return buf.Bytes(), nil
}

func encodeJSONValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt:
		fmt.Fprintf(buf, "%d", v.Int())
	case KindFloat:
		fmt.Fprintf(buf, "%v", v.Float())
	case KindString:
		b, err := json.Marshal(v.String())
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBytes:
		buf.WriteByte('{')
		key, _ := json.Marshal(bytesMarkerKey)
		buf.Write(key)
		buf.WriteByte(':')
		enc, _ := json.Marshal(base64.StdEncoding.EncodeToString(v.Bytes()))
		buf.Write(enc)
		buf.WriteByte('}')
	case KindSlice:
		buf.WriteByte('[')
		for i, e := range v.Slice() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.Map().Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := v.Map().Get(k)
			if err := encodeJSONValue(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func (JSONCodec) Decode(b []byte, f Format) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, &DecodeError{Codec: "json", Position: int(dec.InputOffset()), Reason: err.Error()}
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNil(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(f), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				e, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return NewSlice(elems), nil
		case '{':
			m := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			if k, ok := m.Get(bytesMarkerKey); ok && m.Len() == 1 && k.Kind() == KindString {
				raw, err := base64.StdEncoding.DecodeString(k.String())
				if err == nil {
					return NewBytes(raw), nil
				}
			}
			return NewMap(m), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}
