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

import "github.com/vmihailenco/msgpack/v5"

// MessagePackCodec handles the MessagePack wire format via
// github.com/vmihailenco/msgpack/v5. Shares toNative/fromNative with
// CborCodec, so the same map-order caveat applies (see cbor_codec.go).
type MessagePackCodec struct{}

func (MessagePackCodec) Supports(f Format) bool {
	return f == MsgPack || f == Unknown || f == OctetStream
}

func (MessagePackCodec) Encode(v Value, f Format) ([]byte, error) {
	b, err := msgpack.Marshal(toNative(v))
	if err != nil {
		return nil, &EncodeError{Codec: "msgpack", Reason: err.Error()}
	}
	return b, nil
}

func (MessagePackCodec) Decode(b []byte, f Format) (Value, error) {
	var out interface{}
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return Value{}, &DecodeError{Codec: "msgpack", Position: -1, Reason: err.Error()}
	}
	return fromNative(out), nil
}
