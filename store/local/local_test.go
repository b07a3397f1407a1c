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

package local

import (
	"context"
	"testing"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

func TestLocalWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	p := path.MustParse("users/1")

	if _, err := l.Write(ctx, p, value.NewParsed(value.NewString("Alice"))); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec, err := l.Read(ctx, p)
	if err != nil || rec == nil {
		t.Fatalf("read: rec=%v err=%v", rec, err)
	}
	v, err := rec.Value(value.JSONCodec{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.String() != "Alice" {
		t.Fatalf("expected Alice, got %q", v.String())
	}
}

func TestLocalReadMissingReturnsNil(t *testing.T) {
	l, _ := New(t.TempDir())
	rec, err := l.Read(context.Background(), path.MustParse("missing"))
	if err != nil || rec != nil {
		t.Fatalf("expected (nil, nil), got rec=%v err=%v", rec, err)
	}
}

func TestLocalDirectoryListing(t *testing.T) {
	l, _ := New(t.TempDir())
	ctx := context.Background()
	l.Write(ctx, path.MustParse("a/x"), value.NewParsed(value.NewInt(1)))
	l.Write(ctx, path.MustParse("a/y"), value.NewParsed(value.NewInt(2)))

	rec, err := l.Read(ctx, path.MustParse("a"))
	if err != nil || rec == nil {
		t.Fatalf("read dir: rec=%v err=%v", rec, err)
	}
	v, _ := rec.Value(value.JSONCodec{})
	if v.Kind() != value.KindSlice || len(v.Slice()) != 2 {
		t.Fatalf("expected 2 entries, got %+v", v.Any())
	}
}

func TestLocalDescribe(t *testing.T) {
	l, _ := New(t.TempDir())
	ctx := context.Background()
	p := path.MustParse("users/1")
	l.Write(ctx, p, value.NewParsed(value.NewString("Alice")))

	desc, err := l.Describe(ctx, p)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if desc.IsDir || desc.Size <= 0 {
		t.Fatalf("expected a sized file, got %+v", desc)
	}

	l.Write(ctx, path.MustParse("users/2"), value.NewParsed(value.NewString("Bob")))
	dirDesc, err := l.Describe(ctx, path.MustParse("users"))
	if err != nil {
		t.Fatalf("describe dir: %v", err)
	}
	if !dirDesc.IsDir || len(dirDesc.Subpaths) != 2 {
		t.Fatalf("expected 2 subpaths, got %+v", dirDesc)
	}
}

func TestLocalDescribeMissingIsNotAnError(t *testing.T) {
	l, _ := New(t.TempDir())
	desc, err := l.Describe(context.Background(), path.MustParse("missing"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if desc.Size != -1 {
		t.Fatalf("expected Size -1, got %d", desc.Size)
	}
}

func TestLocalDelete(t *testing.T) {
	l, _ := New(t.TempDir())
	ctx := context.Background()
	p := path.MustParse("x")
	l.Write(ctx, p, value.NewParsed(value.NewInt(1)))
	if err := l.Delete(ctx, p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rec, err := l.Read(ctx, p)
	if err != nil || rec != nil {
		t.Fatalf("expected removed, got rec=%v err=%v", rec, err)
	}
}
