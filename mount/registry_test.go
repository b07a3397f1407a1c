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

package mount

import (
	"context"
	"sync"
	"testing"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

func testFactory(cfg store.MountConfig) (store.Store, error) {
	switch cfg.Kind {
	case store.KindMemory:
		return store.NewMemory(), nil
	case store.KindHelp:
		return store.NewHelp(), nil
	case store.KindSys:
		return store.NewSys(), nil
	default:
		return nil, &store.ErrUnknownMountKind{Kind: cfg.Kind}
	}
}

func TestMountWriteReadUnmount(t *testing.T) {
	reg := NewRegistry(testFactory, store.NewHelp())
	ctx := context.Background()

	if _, err := reg.Mount("data", store.MountConfig{Kind: store.KindMemory}); err != nil {
		t.Fatalf("mount: %v", err)
	}

	p := path.MustParse("data/users/1")
	if _, err := reg.Write(ctx, p, value.NewParsed(value.NewString("Alice"))); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := reg.Read(ctx, p)
	if err != nil || got == nil {
		t.Fatalf("read: got=%v err=%v", got, err)
	}

	if err := reg.Unmount("data"); err != nil {
		t.Fatalf("unmount: %v", err)
	}
	after, err := reg.Read(ctx, p)
	if err != nil {
		t.Fatalf("read after unmount should not error, got %v", err)
	}
	if after != nil {
		t.Fatalf("expected no record once the covering layer is unmounted")
	}
}

func TestControlPlaneListAndInstall(t *testing.T) {
	reg := NewRegistry(testFactory, store.NewHelp())
	ctx := context.Background()

	if _, err := reg.Mount("data", store.MountConfig{Kind: store.KindMemory}); err != nil {
		t.Fatalf("mount: %v", err)
	}

	cfg := store.MountConfigToValue(store.MountConfig{Kind: store.KindMemory})
	effective, err := reg.Write(ctx, path.MustParse("_mounts/extra"), value.NewParsed(cfg))
	if err != nil {
		t.Fatalf("install via control plane: %v", err)
	}
	if effective.String() != "_mounts/extra" {
		t.Fatalf("unexpected effective path %q", effective)
	}

	listing, err := reg.Read(ctx, path.MustParse("_mounts"))
	if err != nil || listing == nil {
		t.Fatalf("list mounts: got=%v err=%v", listing, err)
	}
	v, err := listing.Value(value.JSONCodec{})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.Kind() != value.KindSlice || len(v.Slice()) != 2 {
		t.Fatalf("expected 2 mount descriptors, got %+v", v.Any())
	}

	if err := reg.Delete(ctx, path.MustParse("_mounts/extra")); err != nil {
		t.Fatalf("unmount via control plane: %v", err)
	}
	listing2, _ := reg.Read(ctx, path.MustParse("_mounts"))
	v2, _ := listing2.Value(value.JSONCodec{})
	if len(v2.Slice()) != 1 {
		t.Fatalf("expected 1 mount descriptor after delete, got %d", len(v2.Slice()))
	}
}

func TestConcurrentMountSameprefixOneWins(t *testing.T) {
	reg := NewRegistry(testFactory, nil)
	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.Mount("shared", store.MountConfig{Kind: store.KindMemory})
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if _, ok := err.(*MountError); !ok {
			t.Fatalf("unexpected error type: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 successful mount of 10 racers, got %d", successes)
	}
}

func TestDuplicateMountFails(t *testing.T) {
	reg := NewRegistry(testFactory, nil)
	if _, err := reg.Mount("x", store.MountConfig{Kind: store.KindMemory}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	_, err := reg.Mount("x", store.MountConfig{Kind: store.KindMemory})
	if err == nil {
		t.Fatalf("expected AlreadyMounted")
	}
	me, ok := err.(*MountError)
	if !ok || me.Kind != MountAlreadyMounted {
		t.Fatalf("expected MountAlreadyMounted, got %v", err)
	}
}
