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

package store

import (
	"context"
	"testing"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

func TestSysPidMatchesProcess(t *testing.T) {
	s := NewSys()
	rec, err := s.Read(context.Background(), path.MustParse("pid"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a pid record")
	}
	v, err := rec.Value(nil)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.Int() <= 0 {
		t.Fatalf("expected a positive pid, got %d", v.Int())
	}
}

func TestSysUnknownSegmentIsAbsent(t *testing.T) {
	s := NewSys()
	rec, err := s.Read(context.Background(), path.MustParse("nonexistent"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected absent for an unknown segment")
	}
}

func TestSysWriteIsUnsupported(t *testing.T) {
	s := NewSys()
	rec := value.NewParsed(value.NewInt(1))
	if _, err := s.Write(context.Background(), path.MustParse("pid"), rec); err == nil {
		t.Fatalf("expected an error writing to a read-only store")
	}
}
