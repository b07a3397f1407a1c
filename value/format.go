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

// Package value implements the StructFS data model: the Format tag, the
// recursive Value union, the Record envelope, and the codec layer that
// bridges bytes and values.
package value

// Format is an informational label carried alongside raw bytes so a
// codec can dispatch without sniffing.
type Format int

const (
	Unknown Format = iota
	JSON
	CBOR
	MsgPack
	OctetStream
	Text
)

// ParseFormat inverts String, returning Unknown for any text it does
// not recognize.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return JSON
	case "cbor":
		return CBOR
	case "msgpack":
		return MsgPack
	case "octet-stream":
		return OctetStream
	case "text":
		return Text
	default:
		return Unknown
	}
}

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CBOR:
		return "cbor"
	case MsgPack:
		return "msgpack"
	case OctetStream:
		return "octet-stream"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}
