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

	NonLockingReadMap "github.com/launix-de/NonLockingReadMap"

	"github.com/launix-de/structfs/overlay"
	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// Registry is the mount table: a NonLockingReadMap-backed,
// copy-on-write index of mounted prefixes (spec.md §5) sitting on top
// of overlay.Router, plus the Factory plug-in point and the
// `_mounts/` control-plane path (spec.md §4.5, §6).
type Registry struct {
	router        *overlay.Router
	factory       store.Factory
	help          *store.Help
	controlPrefix path.Path

	// seq sequences mount/unmount operations: two concurrent mount
	// calls to the same prefix must produce one success and one
	// AlreadyMounted (spec.md §4.5), which NonLockingReadMap's optimistic
	// CAS retries alone do not guarantee (both could observe an empty
	// slot and race to insert).
	seq sync.Mutex

	table NonLockingReadMap.NonLockingReadMap[entry, string]
}

// NewRegistry builds a Registry around factory, with "_mounts" as the
// control-plane prefix and help as the optional StoreRegistration docs
// store (may be nil to skip docs tracking).
func NewRegistry(factory store.Factory, help *store.Help) *Registry {
	return &Registry{
		router:        overlay.NewRouter(),
		factory:       factory,
		help:          help,
		controlPrefix: path.MustParse("_mounts"),
		table:         NonLockingReadMap.New[entry, string](),
	}
}

// Router exposes the underlying dispatch engine for direct use (e.g.
// by tests that want to bypass the control plane).
func (r *Registry) Router() *overlay.Router { return r.router }

// Mount parses prefixStr, builds a store via the Factory, installs
// the layer, and records the descriptor — sequenced so concurrent
// mounts to the same prefix produce exactly one success (spec.md
// §4.5).
func (r *Registry) Mount(prefixStr string, cfg store.MountConfig) (path.Path, error) {
	prefix, err := path.Parse(prefixStr)
	if err != nil {
		return path.Root, err
	}

	r.seq.Lock()
	defer r.seq.Unlock()

	if r.table.Get(prefix.String()) != nil {
		return path.Root, &MountError{Kind: MountAlreadyMounted, Prefix: prefix.String()}
	}

	st, err := r.factory(cfg)
	if err != nil {
		return path.Root, &MountError{Kind: MountFactoryFailed, Prefix: prefix.String(), Reason: err.Error()}
	}

	layer, err := r.router.Mount(prefix, st)
	if err != nil {
		return path.Root, &MountError{Kind: MountAlreadyMounted, Prefix: prefix.String(), Reason: err.Error()}
	}

	e := entry{Prefix: prefix.String(), Config: cfg, ID: newInstanceID(), Layer: layer}
	r.table.Set(&e)

	if r.help != nil {
		if reg, ok := st.(interface{ Registration() store.StoreRegistration }); ok {
			r.help.Register(prefix.String(), reg.Registration())
		} else {
			r.help.Register(prefix.String(), store.StoreRegistration{Name: cfg.Kind.String()})
		}
	}

	return prefix, nil
}

// Unmount removes the layer at prefixStr and tears down its store by
// calling its Close method, when the store has one; stores without a
// Close method get no teardown call.
func (r *Registry) Unmount(prefixStr string) error {
	prefix, err := path.Parse(prefixStr)
	if err != nil {
		return err
	}

	r.seq.Lock()
	defer r.seq.Unlock()

	e := r.table.Get(prefix.String())
	if e == nil {
		return &MountError{Kind: MountUnknown, Prefix: prefix.String()}
	}
	e.Layer.SetState(overlay.LayerUnmounting)
	r.router.Unmount(prefix)
	r.table.Remove(prefix.String())
	if r.help != nil {
		r.help.Unregister(prefix.String())
	}

	if closer, ok := e.Layer.Store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Read dispatches to the control plane when p falls under the
// control-plane prefix, and to the router otherwise. Control-plane
// operations never fall through to data layers (spec.md §4.4).
func (r *Registry) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	if p.HasPrefix(r.controlPrefix) {
		return r.readControlPlane(p)
	}
	return r.router.Read(ctx, p)
}

func (r *Registry) readControlPlane(p path.Path) (*value.Record, error) {
	suffix, _ := p.StripPrefix(r.controlPrefix)
	if suffix.IsRoot() {
		entries := r.table.GetAll()
		out := make([]value.Value, 0, len(entries))
		for _, e := range entries {
			m := value.NewOrderedMap()
			m.Set("name", value.NewString(e.Prefix))
			m.Set("prefix", value.NewString(e.Prefix))
			m.Set("id", value.NewString(e.ID.String()))
			m.Set("config", store.MountConfigToValue(e.Config))
			out = append(out, value.NewMap(m))
		}
		rec := value.NewParsed(value.NewSlice(out))
		return &rec, nil
	}

	e := r.table.Get(suffix.String())
	if e == nil {
		return nil, nil
	}
	rec := value.NewParsed(store.MountConfigToValue(e.Config))
	return &rec, nil
}

// Write dispatches to the control plane (installing a mount) or the
// router.
func (r *Registry) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if p.HasPrefix(r.controlPrefix) {
		return r.writeControlPlane(p, rec)
	}
	return r.router.Write(ctx, p, rec)
}

func (r *Registry) writeControlPlane(p path.Path, rec value.Record) (path.Path, error) {
	suffix, _ := p.StripPrefix(r.controlPrefix)
	name, ok := suffix.LastSegment()
	if !ok {
		return path.Root, &store.WriteError{Kind: store.WriteUnsupported, Path: p.String(), Reason: "write _mounts/<name> requires a name"}
	}

	v, err := rec.Value(value.JSONCodec{})
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}
	cfg, err := store.MountConfigFromValue(v)
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}

	effective, err := r.Mount(name, cfg)
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	return r.controlPrefix.Join(effective)
}

// Describe implements store.Describer by forwarding to the router; the
// control plane itself has no meta lens.
func (r *Registry) Describe(ctx context.Context, p path.Path) (store.Description, error) {
	return r.router.Describe(ctx, p)
}

// Delete unmounts when p addresses the control plane, and deletes via
// the router otherwise.
func (r *Registry) Delete(ctx context.Context, p path.Path) error {
	if p.HasPrefix(r.controlPrefix) {
		suffix, _ := p.StripPrefix(r.controlPrefix)
		name, ok := suffix.LastSegment()
		if !ok {
			return &MountError{Kind: MountUnknown, Prefix: p.String()}
		}
		return r.Unmount(name)
	}
	return r.router.Delete(ctx, p)
}
