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

import "sync"

// recordKind distinguishes the three Record variants. Unexported: callers
// branch on capability (Bytes()/Value()) rather than on the kind.
type recordKind int

const (
	recordRaw recordKind = iota
	recordParsed
	recordLazy
)

// Record is the wire envelope stores exchange: exactly one of a Raw
// byte-sequence, an already-materialized Parsed Value, or a Lazy pair
// (Raw payload plus a memoized decode). Records are value-typed and
// freely clonable; the Lazy cache is the one part with shared backing
// state, guarded by sync.Once so concurrent first-reads decode exactly
// once (spec.md §3, §8 property 4).
type Record struct {
	kind   recordKind
	format Format
	raw    []byte
	parsed Value
	lazy   *lazyState
}

type lazyState struct {
	once    sync.Once
	codec   Codec
	raw     []byte
	format  Format
	value   Value
	err     error
}

// NewRaw wraps opaque bytes tagged with their format. Cheapest to
// forward; no parse cost until something calls Value().
func NewRaw(b []byte, f Format) Record {
	return Record{kind: recordRaw, format: f, raw: b}
}

// NewParsed wraps an already-materialized Value.
func NewParsed(v Value) Record {
	return Record{kind: recordParsed, format: Unknown, parsed: v}
}

// NewLazy wraps a Raw payload plus the codec that will decode it on the
// first call to Value(). Subsequent calls are O(1).
func NewLazy(b []byte, f Format, codec Codec) Record {
	return Record{kind: recordLazy, format: f, raw: b, lazy: &lazyState{codec: codec, raw: b, format: f}}
}

// Format reports the Record's format tag; Unknown for Parsed records
// that never carried bytes.
func (r Record) Format() Format { return r.format }

// IsRaw / IsParsed / IsLazy report the record's variant.
func (r Record) IsRaw() bool    { return r.kind == recordRaw }
func (r Record) IsParsed() bool { return r.kind == recordParsed }
func (r Record) IsLazy() bool   { return r.kind == recordLazy }

// Bytes returns the raw payload for Raw and Lazy records. It panics for
// Parsed records: callers must encode through a Codec first, matching
// the "cheapest to forward" invariant (spec.md §3) that Bytes() never
// silently serializes a Parsed value.
func (r Record) Bytes() []byte {
	switch r.kind {
	case recordRaw:
		return r.raw
	case recordLazy:
		return r.lazy.raw
	default:
		panic("value: Bytes() called on a Parsed record")
	}
}

// Value materializes the Record as a Value, decoding through codec for
// Raw records and memoizing (at-most-once, thread-safe) for Lazy ones.
// Parsed records return their stored Value directly.
func (r Record) Value(codec Codec) (Value, error) {
	switch r.kind {
	case recordParsed:
		return r.parsed, nil
	case recordRaw:
		return codec.Decode(r.raw, r.format)
	case recordLazy:
		r.lazy.once.Do(func() {
			r.lazy.value, r.lazy.err = r.lazy.codec.Decode(r.lazy.raw, r.lazy.format)
		})
		return r.lazy.value, r.lazy.err
	}
	return Value{}, nil
}
