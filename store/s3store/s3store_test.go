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

package s3store

import (
	"testing"

	"github.com/launix-de/structfs/path"
)

func TestKeyWithAndWithoutPrefix(t *testing.T) {
	s := New(Options{Bucket: "b", Prefix: "data/"})
	if got := s.key(path.MustParse("a/b")); got != "data/a/b" {
		t.Fatalf("unexpected key %q", got)
	}

	noPrefix := New(Options{Bucket: "b"})
	if got := noPrefix.key(path.MustParse("a/b")); got != "a/b" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestFmtKey(t *testing.T) {
	s := New(Options{Bucket: "b", Prefix: "data"})
	if got := s.fmtKey(path.MustParse("x")); got != "data/x.fmt" {
		t.Fatalf("unexpected fmt key %q", got)
	}
}
