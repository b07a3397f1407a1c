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

package overlay

import (
	"context"
	"errors"
	"testing"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// S1 — Memory round-trip.
func TestMemoryRoundTripThroughRouter(t *testing.T) {
	r := NewRouter()
	ctx := context.Background()
	if _, err := r.Mount(path.MustParse("data"), store.NewMemory()); err != nil {
		t.Fatalf("mount: %v", err)
	}

	p := path.MustParse("data/users/1")
	rec := value.NewParsed(value.NewString("Alice"))
	effective, err := r.Write(ctx, p, rec)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !effective.Equal(p) {
		t.Fatalf("effective path = %q, want %q", effective, p)
	}

	got, err := r.Read(ctx, p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a record")
	}
	v, _ := got.Value(value.JSONCodec{})
	if v.String() != "Alice" {
		t.Fatalf("got %q, want Alice", v.String())
	}
}

// S2 — Overlay redirect: mount Memory at a, redirect a/x -> a/y.
func TestRedirect(t *testing.T) {
	r := NewRouter()
	ctx := context.Background()
	layer, err := r.MountRedirect(path.MustParse("a"), store.NewMemory(), Redirect{
		From: path.MustParse("x"),
		To:   path.MustParse("y"),
	})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	_ = layer

	if _, err := r.Write(ctx, path.MustParse("a/y"), value.NewParsed(value.NewInt(42))); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := r.Read(ctx, path.MustParse("a/x"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a record via redirect")
	}
	v, _ := got.Value(value.JSONCodec{})
	if v.Int() != 42 {
		t.Fatalf("got %v, want 42", v.Any())
	}
}

// S5 — Longest-prefix: store A at a, store B at a/b.
func TestLongestPrefixWins(t *testing.T) {
	r := NewRouter()
	ctx := context.Background()
	a := store.NewMemory()
	b := store.NewMemory()
	if _, err := r.Mount(path.MustParse("a"), a); err != nil {
		t.Fatalf("mount a: %v", err)
	}
	if _, err := r.Mount(path.MustParse("a/b"), b); err != nil {
		t.Fatalf("mount a/b: %v", err)
	}

	if _, err := r.Write(ctx, path.MustParse("a/b/x"), value.NewParsed(value.NewString("from-b"))); err != nil {
		t.Fatalf("write a/b/x: %v", err)
	}
	if _, err := r.Write(ctx, path.MustParse("a/c"), value.NewParsed(value.NewString("from-a"))); err != nil {
		t.Fatalf("write a/c: %v", err)
	}

	// a/b/x must land in b's "x", not a's "b/x".
	direct, err := b.Read(ctx, path.MustParse("x"))
	if err != nil || direct == nil {
		t.Fatalf("expected store B to directly hold suffix 'x', got (%v, %v)", direct, err)
	}
	notInA, err := a.Read(ctx, path.MustParse("b/x"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if notInA != nil {
		t.Fatalf("store A must not have received a/b/x's write")
	}

	gotC, err := r.Read(ctx, path.MustParse("a/c"))
	if err != nil || gotC == nil {
		t.Fatalf("expected a/c served by A, got (%v, %v)", gotC, err)
	}
}

// nonPureStore is a store.Reader/Writer whose negative reads carry no
// stability guarantee, used to confirm fallthrough refuses it.
type nonPureStore struct{ inner *store.Memory }

func (s nonPureStore) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	return s.inner.Read(ctx, p)
}
func (s nonPureStore) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	return s.inner.Write(ctx, p, rec)
}

func TestFallthroughToPureReaderServesBackingLayer(t *testing.T) {
	r := NewRouter()
	ctx := context.Background()
	primary, err := r.Mount(path.MustParse("a"), store.NewMemory())
	if err != nil {
		t.Fatalf("mount a: %v", err)
	}
	if _, err := r.Mount(path.MustParse("b"), store.NewMemory()); err != nil {
		t.Fatalf("mount b: %v", err)
	}
	primary.SetFallthrough(path.MustParse("b"))

	if _, err := r.Write(ctx, path.MustParse("b/x"), value.NewParsed(value.NewInt(7))); err != nil {
		t.Fatalf("write b/x: %v", err)
	}

	got, err := r.Read(ctx, path.MustParse("a/x"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a's negative read to fall through to b (store.Memory is a PureReader)")
	}
	v, _ := got.Value(value.JSONCodec{})
	if v.Int() != 7 {
		t.Fatalf("got %v, want 7", v.Any())
	}
}

func TestFallthroughSkippedForNonPureReader(t *testing.T) {
	r := NewRouter()
	ctx := context.Background()
	primary, err := r.Mount(path.MustParse("a"), nonPureStore{inner: store.NewMemory()})
	if err != nil {
		t.Fatalf("mount a: %v", err)
	}
	if _, err := r.Mount(path.MustParse("b"), store.NewMemory()); err != nil {
		t.Fatalf("mount b: %v", err)
	}
	primary.SetFallthrough(path.MustParse("b"))

	if _, err := r.Write(ctx, path.MustParse("b/x"), value.NewParsed(value.NewInt(7))); err != nil {
		t.Fatalf("write b/x: %v", err)
	}

	got, err := r.Read(ctx, path.MustParse("a/x"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Fatalf("a non-PureReader's negative read must not fall through to b")
	}
}

func TestDuplicatePrefixRejected(t *testing.T) {
	r := NewRouter()
	if _, err := r.Mount(path.MustParse("a"), store.NewMemory()); err != nil {
		t.Fatalf("first mount: %v", err)
	}
	_, err := r.Mount(path.MustParse("a"), store.NewMemory())
	if err == nil {
		t.Fatalf("expected duplicate-prefix mount to fail")
	}
	var re *RoutingError
	if !errors.As(err, &re) || re.Kind != RoutingDuplicatePrefix {
		t.Fatalf("expected RoutingDuplicatePrefix, got %v", err)
	}
}

// S6 — Cycle rejected: store A at a redirects a/ -> a/self.
func TestCycleRejected(t *testing.T) {
	r := NewRouter()
	r.DepthCap = 8
	_, err := r.MountRedirect(path.MustParse("a"), store.NewMemory(), Redirect{
		From: path.Root,
		To:   path.MustParse("self"),
	})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	_, err = r.Read(context.Background(), path.MustParse("a/x"))
	if err == nil {
		t.Fatalf("expected a cycle or depth error")
	}
	var re *RoutingError
	if !errors.As(err, &re) {
		t.Fatalf("expected a RoutingError, got %v", err)
	}
	if re.Kind != RoutingCycle && re.Kind != RoutingDepthExceeded {
		t.Fatalf("expected Cycle or DepthExceeded, got %v", re.Kind)
	}
}

func TestMountUnmountSymmetry(t *testing.T) {
	r := NewRouter()
	before := len(r.Layers())
	if _, err := r.Mount(path.MustParse("tmp"), store.NewMemory()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !r.Unmount(path.MustParse("tmp")) {
		t.Fatalf("expected unmount to report success")
	}
	after := len(r.Layers())
	if before != after {
		t.Fatalf("registry should be observationally equal after mount;unmount, got %d layers before vs %d after", before, after)
	}
}

func TestWriteWithNoRouteFails(t *testing.T) {
	r := NewRouter()
	_, err := r.Write(context.Background(), path.MustParse("nowhere"), value.NewParsed(value.NewNil()))
	if err == nil {
		t.Fatalf("expected WriteError for an unmounted path")
	}
	var we *store.WriteError
	if !errors.As(err, &we) || we.Kind != store.WriteNoRoute {
		t.Fatalf("expected store.WriteNoRoute, got %v", err)
	}
}
