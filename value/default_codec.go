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

// DefaultCodec dispatches on the explicit Format tag when one is given,
// and otherwise sniffs the payload against JSON, then CBOR, then
// MsgPack, in that order (spec.md §4.2). Encode always needs an
// explicit, non-Unknown/non-OctetStream format since there is nothing
// to sniff.
type DefaultCodec struct {
	JSON    Codec
	CBOR    Codec
	MsgPack Codec
}

// NewDefaultCodec builds a DefaultCodec wired to the three baseline
// codecs.
func NewDefaultCodec() DefaultCodec {
	return DefaultCodec{JSON: JSONCodec{}, CBOR: CborCodec{}, MsgPack: MessagePackCodec{}}
}

func (d DefaultCodec) Supports(f Format) bool {
	return true
}

func (d DefaultCodec) Encode(v Value, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return d.JSON.Encode(v, f)
	case CBOR:
		return d.CBOR.Encode(v, f)
	case MsgPack:
		return d.MsgPack.Encode(v, f)
	default:
		return nil, &EncodeError{Codec: "default", Reason: "format must be explicit (json, cbor, or msgpack) to encode"}
	}
}

func (d DefaultCodec) Decode(b []byte, f Format) (Value, error) {
	switch f {
	case JSON:
		return d.JSON.Decode(b, f)
	case CBOR:
		return d.CBOR.Decode(b, f)
	case MsgPack:
		return d.MsgPack.Decode(b, f)
	}

	if v, err := d.JSON.Decode(b, JSON); err == nil {
		return v, nil
	}
	if v, err := d.CBOR.Decode(b, CBOR); err == nil {
		return v, nil
	}
	if v, err := d.MsgPack.Decode(b, MsgPack); err == nil {
		return v, nil
	}
	return Value{}, ErrUnknownFormat
}
