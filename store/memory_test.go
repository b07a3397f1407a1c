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

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	p := path.MustParse("users/1")

	rec := value.NewParsed(value.NewString("Alice"))
	effective, err := m.Write(ctx, p, rec)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !effective.Equal(p) {
		t.Fatalf("Memory.Write must return the requested path unchanged, got %q", effective)
	}

	got, err := m.Read(ctx, p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a record, got nil")
	}
	v, err := got.Value(value.JSONCodec{})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.String() != "Alice" {
		t.Fatalf("got %q, want Alice", v.String())
	}
}

func TestMemoryReadAbsentReturnsNilNil(t *testing.T) {
	m := NewMemory()
	got, err := m.Read(context.Background(), path.MustParse("missing"))
	if err != nil {
		t.Fatalf("expected no error for an absent path, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil record for an absent path")
	}
}

func TestMemoryDeleteThenReadIsAbsent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	p := path.MustParse("x")

	if _, err := m.Write(ctx, p, value.NewParsed(value.NewInt(1))); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.Delete(ctx, p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := m.Read(ctx, p)
	if err != nil || got != nil {
		t.Fatalf("expected absent after delete, got (%v, %v)", got, err)
	}
}

func TestMemoryIsPureReader(t *testing.T) {
	var r Reader = NewMemory()
	if _, ok := r.(PureReader); !ok {
		t.Fatalf("Memory must satisfy PureReader")
	}
}
