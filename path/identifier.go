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

package path

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
)

// identRune1 / identRuneN classify the first rune and the remaining
// runes of a strict identifier-path segment: a letter to start, then
// letters or Unicode numbers ('_' is accepted in both places by the
// caller). This is the source's original restriction (segments are
// Unicode identifiers), kept available as an opt-in capability per
// spec.md §9 rather than the default parsing rule.
var identRune1 = runes.In(unicode.L).Contains

func identRuneN(r rune) bool {
	return runes.In(unicode.L).Contains(r) || runes.In(unicode.N).Contains(r)
}

// ValidateIdentifier applies the stricter historical rule: every segment
// must look like a Unicode identifier (a leading letter or underscore,
// followed by letters, numbers or underscores). It is an opt-in check
// for identifier-path contexts; the general-purpose Parse does not apply
// it and accepts the wider filesystem-interoperable segment alphabet.
func ValidateIdentifier(p Path) error {
	for _, seg := range p.segments {
		if err := validateIdentifierSegment(seg); err != nil {
			return err
		}
	}
	return nil
}

func validateIdentifierSegment(seg string) error {
	r, size := utf8.DecodeRuneInString(seg)
	if r == utf8.RuneError && size <= 1 {
		return &InvalidPathError{ErrInvalidCharacter, seg}
	}
	if r != '_' && !identRune1(r) {
		return &InvalidPathError{ErrInvalidCharacter, seg}
	}
	rest := seg[size:]
	for len(rest) > 0 {
		r, size = utf8.DecodeRuneInString(rest)
		if r == utf8.RuneError && size <= 1 {
			return &InvalidPathError{ErrInvalidCharacter, seg}
		}
		if r != '_' && !identRuneN(r) {
			return &InvalidPathError{ErrInvalidCharacter, seg}
		}
		rest = rest[size:]
	}
	return nil
}
