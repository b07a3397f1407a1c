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

// Package path implements the StructFS path algebra: parsing, normalizing,
// joining and slicing hierarchical path segments.
package path

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind distinguishes why a path failed to parse or compose.
type ErrorKind int

const (
	ErrEmptySegment ErrorKind = iota
	ErrNulByte
	ErrEscapeAboveRoot
	ErrInvalidCharacter
)

func (k ErrorKind) String() string {
	switch k {
	case ErrEmptySegment:
		return "empty-segment"
	case ErrNulByte:
		return "nul-byte"
	case ErrEscapeAboveRoot:
		return "escape-above-root"
	case ErrInvalidCharacter:
		return "invalid-character"
	default:
		return "unknown"
	}
}

// InvalidPathError is returned by Parse and Join when the input cannot be
// turned into a canonical Path.
type InvalidPathError struct {
	Kind  ErrorKind
	Input string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Input, e.Kind)
}

// Is lets callers write errors.Is(err, path.ErrInvalidPath).
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// ErrInvalidPath is the sentinel InvalidPathError values compare against
// through errors.Is; inspect the concrete *InvalidPathError via errors.As
// for the specific Kind.
var ErrInvalidPath = errors.New("invalid path")

// Path is an immutable, cheaply-clonable ordered sequence of segments.
// The zero value is the root path.
type Path struct {
	segments []string
}

// Root is the empty path. It compares equal to itself only.
var Root = Path{}

// Parse turns a string into a canonical Path: it trims one optional
// leading '/', splits on '/', rejects empty segments (collapsing "//"),
// resolves "." (dropped) and ".." (pops, erroring on underflow), and
// validates every remaining segment with the relaxed rule spec.md §9
// mandates for general mounts: non-empty, no NUL byte, no '/'.
func Parse(s string) (Path, error) {
	return parseRelative(nil, s)
}

// parseRelative is Parse's engine, generalized to resolve s's leading
// ".." segments against base rather than rejecting them outright: base
// plays the role of the segments already accumulated to the left, the
// same role p's segments play inside Join. Parse is parseRelative(nil,
// s); JoinString is parseRelative(p.segments, s).
func parseRelative(base []string, s string) (Path, error) {
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimPrefix(s, "/")
	segs := make([]string, len(base), len(base)+8)
	copy(segs, base)
	if s == "" {
		return Path{segments: segs}, nil
	}
	raw := strings.Split(s, "/")
	for _, seg := range raw {
		switch seg {
		case "":
			return Path{}, &InvalidPathError{ErrEmptySegment, s}
		case ".":
			continue
		case "..":
			if len(segs) == 0 {
				return Path{}, &InvalidPathError{ErrEscapeAboveRoot, s}
			}
			segs = segs[:len(segs)-1]
		default:
			if err := validateSegment(seg); err != nil {
				return Path{}, err
			}
			segs = append(segs, seg)
		}
	}
	return Path{segments: segs}, nil
}

// MustParse is Parse but panics on error; useful for literals in tests
// and mount tables built from trusted constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func validateSegment(seg string) error {
	if seg == "" {
		return &InvalidPathError{ErrEmptySegment, seg}
	}
	if strings.IndexByte(seg, 0) >= 0 {
		return &InvalidPathError{ErrNulByte, seg}
	}
	if strings.IndexByte(seg, '/') >= 0 {
		return &InvalidPathError{ErrInvalidCharacter, seg}
	}
	return nil
}

// String renders the canonical form: segments joined by '/', no leading
// or trailing slash. The root path renders as "".
func (p Path) String() string {
	return strings.Join(p.segments, "/")
}

// Segments returns a defensive copy of the segment slice.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// IsRoot reports whether p has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Equal reports whether p and q have identical segment sequences.
func (p Path) Equal(q Path) bool {
	if len(p.segments) != len(q.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != q.segments[i] {
			return false
		}
	}
	return true
}

// Parent returns the path with its last segment removed, or (Root, false)
// if p is already the root.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Root, false
	}
	return Path{segments: p.segments[:len(p.segments)-1]}, true
}

// LastSegment returns the final segment, or ("", false) for the root.
func (p Path) LastSegment() (string, bool) {
	if len(p.segments) == 0 {
		return "", false
	}
	return p.segments[len(p.segments)-1], true
}

// Join concatenates p with other's segments. If other begins with one or
// more ".." segments they are resolved against p's tail (popping;
// underflow is an error), mirroring Parse's "..": resolution rule.
func (p Path) Join(other Path) (Path, error) {
	segs := make([]string, len(p.segments), len(p.segments)+len(other.segments))
	copy(segs, p.segments)
	for _, seg := range other.segments {
		if seg == ".." {
			if len(segs) == 0 {
				return Path{}, &InvalidPathError{ErrEscapeAboveRoot, other.String()}
			}
			segs = segs[:len(segs)-1]
			continue
		}
		segs = append(segs, seg)
	}
	return Path{segments: segs}, nil
}

// JoinString parses s relative to p, resolving any leading ".." in s
// against p's own segments rather than rejecting them: this is the
// only public entry point that can reach Join's "pop against the
// left's tail" behavior, since Parse(s) alone has no left-hand side to
// pop against and rejects a leading ".." as escaping above root.
func (p Path) JoinString(s string) (Path, error) {
	return parseRelative(p.segments, s)
}

// HasPrefix reports whether p's segment sequence begins with prefix's.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i := range prefix.segments {
		if p.segments[i] != prefix.segments[i] {
			return false
		}
	}
	return true
}

// StripPrefix returns the suffix path (possibly Root) when HasPrefix
// holds for prefix, and false otherwise.
func (p Path) StripPrefix(prefix Path) (Path, bool) {
	if !p.HasPrefix(prefix) {
		return Path{}, false
	}
	rest := p.segments[len(prefix.segments):]
	out := make([]string, len(rest))
	copy(out, rest)
	return Path{segments: out}, true
}

// Len reports the number of segments (0 for the root).
func (p Path) Len() int {
	return len(p.segments)
}
