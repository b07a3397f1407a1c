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

func TestHelpRegisterAndLookup(t *testing.T) {
	h := NewHelp()
	h.Register("data", StoreRegistration{Name: "Memory store", DocsPath: "docs"})

	got, err := h.Read(context.Background(), path.MustParse("data"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a registration record")
	}
	v, err := got.Value(value.JSONCodec{})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	name, ok := v.Map().Get("name")
	if !ok || name.String() != "Memory store" {
		t.Fatalf("unexpected registration payload: %+v", v.Any())
	}
}

func TestHelpUnregisterRemovesEntry(t *testing.T) {
	h := NewHelp()
	h.Register("data", StoreRegistration{Name: "Memory store"})
	h.Unregister("data")

	got, err := h.Read(context.Background(), path.MustParse("data"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after unregister")
	}
}

func TestHelpWriteIsUnsupported(t *testing.T) {
	h := NewHelp()
	_, err := h.Write(context.Background(), path.MustParse("x"), value.NewParsed(value.NewNil()))
	if err == nil {
		t.Fatalf("expected an error writing to a read-only store")
	}
}
