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
	"sync"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// DefaultDepthCap bounds a single dispatch's redirect/fallthrough chain
// length (spec.md §4.4, §8 property 6).
const DefaultDepthCap = 32

// LayerState is the per-layer lifecycle spec.md §4.4 names:
// Mounting -> Ready -> (Unmounting -> Gone). overlay.Router constructs
// layers directly in Ready state and marks them Gone on Unmount;
// mount.Registry marks a layer Unmounting just before removing it.
// Nothing in this module sets LayerMounting.
type LayerState int

const (
	LayerReady LayerState = iota
	LayerMounting
	LayerUnmounting
	LayerGone
)

// Redirect is a per-layer path rewrite applied after prefix stripping
// and before forwarding (spec.md §4.4).
type Redirect struct {
	From path.Path
	To   path.Path
}

// Layer is one mounted (prefix, store) pair plus its optional redirect
// and fallthrough edges.
type Layer struct {
	Prefix     path.Path
	Store      store.Store
	Redirect   *Redirect
	Fallthrough *path.Path // prefix of another layer to consult on a negative read

	mu    sync.RWMutex
	state LayerState
}

func newLayer(prefix path.Path, st store.Store) *Layer {
	return &Layer{Prefix: prefix, Store: st, state: LayerReady}
}

// State reports the layer's current lifecycle state.
func (l *Layer) State() LayerState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// SetState is used by mount.Registry to mark a layer Unmounting before
// it is removed, and by Router.Unmount to mark it Gone.
func (l *Layer) SetState(s LayerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s
}

// Router owns an ordered set of layers and dispatches (verb, path)
// pairs to the longest matching mount prefix (spec.md §4.4).
type Router struct {
	mu       sync.RWMutex
	layers   []*Layer
	DepthCap int
}

// NewRouter returns a Router with the default depth cap.
func NewRouter() *Router {
	return &Router{DepthCap: DefaultDepthCap}
}

// Mount registers a new layer at prefix. Registering an exact-prefix
// duplicate is rejected (spec.md §4.4).
func (r *Router) Mount(prefix path.Path, st store.Store) (*Layer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.layers {
		if l.Prefix.Equal(prefix) {
			return nil, &RoutingError{Kind: RoutingDuplicatePrefix, Layer: prefix.String()}
		}
	}
	l := newLayer(prefix, st)
	r.layers = append(r.layers, l)
	return l, nil
}

// SetFallthrough wires l's opt-in fallthrough edge: when l.Store
// answers a read with None, the router consults the layer mounted at
// target next (spec.md §4.4).
func (l *Layer) SetFallthrough(target path.Path) {
	l.Fallthrough = &target
}

// MountRedirect is Mount plus a redirect edge local to the new layer.
func (r *Router) MountRedirect(prefix path.Path, st store.Store, redirect Redirect) (*Layer, error) {
	l, err := r.Mount(prefix, st)
	if err != nil {
		return nil, err
	}
	l.Redirect = &redirect
	return l, nil
}

// Unmount removes the layer registered at prefix, if any.
func (r *Router) Unmount(prefix path.Path) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.layers {
		if l.Prefix.Equal(prefix) {
			l.SetState(LayerGone)
			r.layers = append(r.layers[:i:i], r.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Layers returns a snapshot of the currently mounted layers, in
// registration order.
func (r *Router) Layers() []*Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Layer, len(r.layers))
	copy(out, r.layers)
	return out
}

// match returns the longest-prefix-matching layer for p, ties broken
// by registration order (earlier wins), per spec.md §8 property 5.
func (r *Router) match(p path.Path) (*Layer, path.Path, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Layer
	bestLen := -1
	for _, l := range r.layers {
		if p.HasPrefix(l.Prefix) && l.Prefix.Len() > bestLen {
			best = l
			bestLen = l.Prefix.Len()
		}
	}
	if best == nil {
		return nil, path.Root, false
	}
	suffix, _ := p.StripPrefix(best.Prefix)
	return best, suffix, true
}

// visitKey identifies a (layer, rewritten-suffix) pair for cycle
// detection during one dispatch (spec.md §4.4, §8 property 6).
type visitKey struct {
	prefix string
	suffix string
}

// dispatchState threads the visited set and remaining depth through a
// single logical operation's redirect/fallthrough chain.
type dispatchState struct {
	visited map[visitKey]bool
	depth   int
	cap     int
}

func (r *Router) newDispatch() *dispatchState {
	cap := r.DepthCap
	if cap <= 0 {
		cap = DefaultDepthCap
	}
	return &dispatchState{visited: make(map[visitKey]bool), cap: cap}
}

// resolve repeatedly applies the matched layer's own redirect to
// suffix until it no longer matches the redirect's From prefix,
// recording each intermediate (layer, suffix) visit. A redirect whose
// From matches its own To's output (e.g. From = root) never stabilizes
// on its own; the visited-set and depth cap are what make that
// terminate with a RoutingError instead of looping forever (spec.md
// §4.4, §8 property 6).
func (ds *dispatchState) resolve(l *Layer, suffix path.Path) (path.Path, error) {
	for {
		ds.depth++
		if ds.depth > ds.cap {
			return path.Root, &RoutingError{Kind: RoutingDepthExceeded, Path: suffix.String()}
		}

		key := visitKey{prefix: l.Prefix.String(), suffix: suffix.String()}
		if ds.visited[key] {
			return path.Root, &RoutingError{Kind: RoutingCycle, Path: suffix.String(), Layer: l.Prefix.String()}
		}
		ds.visited[key] = true

		if l.Redirect == nil || !suffix.HasPrefix(l.Redirect.From) {
			return suffix, nil
		}
		rest, _ := suffix.StripPrefix(l.Redirect.From)
		rewritten, err := l.Redirect.To.Join(rest)
		if err != nil {
			return path.Root, err
		}
		suffix = rewritten
	}
}

// Read dispatches a read to the longest-prefix-matching layer,
// following redirects and (when the layer's store answers None and a
// fallthrough edge is configured) the fallthrough chain. Both
// participate in cycle detection (spec.md §9).
func (r *Router) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	ds := r.newDispatch()
	return r.dispatchRead(ctx, p, ds)
}

func (r *Router) dispatchRead(ctx context.Context, p path.Path, ds *dispatchState) (*value.Record, error) {
	l, suffix, ok := r.match(p)
	if !ok {
		return nil, nil
	}
	if st := l.State(); st != LayerReady {
		return nil, &RoutingError{Kind: RoutingBusy, Path: p.String(), Layer: l.Prefix.String()}
	}

	rewritten, err := ds.resolve(l, suffix)
	if err != nil {
		return nil, err
	}

	rec, err := l.Store.Read(ctx, rewritten)
	if err != nil {
		return nil, err
	}
	if rec != nil || l.Fallthrough == nil {
		return rec, nil
	}
	if _, pure := l.Store.(store.PureReader); !pure {
		return nil, nil
	}

	// Fallthrough: read the layer registered at l.Fallthrough at the
	// same rewritten suffix (spec.md §4.4, §9). The hop counts against
	// the depth cap and the visited set, but the target's own redirect
	// edge is not applied. Only a store.PureReader's negative result is
	// trusted as stable enough to justify falling through to another
	// layer.
	ft, ftSuffix, ok := r.matchExact(*l.Fallthrough, rewritten)
	if !ok {
		return nil, nil
	}
	if st := ft.State(); st != LayerReady {
		return nil, &RoutingError{Kind: RoutingBusy, Path: p.String(), Layer: ft.Prefix.String()}
	}
	ds.depth++
	if ds.depth > ds.cap {
		return nil, &RoutingError{Kind: RoutingDepthExceeded, Path: ftSuffix.String()}
	}
	key := visitKey{prefix: ft.Prefix.String(), suffix: ftSuffix.String()}
	if ds.visited[key] {
		return nil, &RoutingError{Kind: RoutingCycle, Path: ftSuffix.String(), Layer: ft.Prefix.String()}
	}
	ds.visited[key] = true
	return ft.Store.Read(ctx, ftSuffix)
}

// matchExact looks up the layer registered at exactly prefix (used for
// fallthrough, which names its target by mount prefix rather than by
// longest-prefix search). The fallthrough target receives the same
// rewritten suffix the primary layer saw, not a further re-stripped
// one: it stands in as an alternate backing store for that same
// logical subtree.
func (r *Router) matchExact(prefix path.Path, suffix path.Path) (*Layer, path.Path, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.layers {
		if l.Prefix.Equal(prefix) {
			return l, suffix, true
		}
	}
	return nil, path.Root, false
}

// Write dispatches a write to the longest-prefix-matching layer,
// following its redirect if present.
func (r *Router) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	ds := r.newDispatch()
	l, suffix, ok := r.match(p)
	if !ok {
		return path.Root, &store.WriteError{Kind: store.WriteNoRoute, Path: p.String(), Reason: "no mounted layer covers this path"}
	}
	if st := l.State(); st != LayerReady {
		return path.Root, &RoutingError{Kind: RoutingBusy, Path: p.String(), Layer: l.Prefix.String()}
	}
	rewritten, err := ds.resolve(l, suffix)
	if err != nil {
		return path.Root, err
	}
	effective, err := l.Store.Write(ctx, rewritten, rec)
	if err != nil {
		return path.Root, err
	}
	out, err := l.Prefix.Join(effective)
	if err != nil {
		return effective, nil
	}
	return out, nil
}

// Describe dispatches to the longest-prefix-matching layer's
// store.Describer, following its redirect like Read. A layer whose
// store does not implement Describer reports store.Unsupported.
func (r *Router) Describe(ctx context.Context, p path.Path) (store.Description, error) {
	ds := r.newDispatch()
	l, suffix, ok := r.match(p)
	if !ok {
		return store.Description{Size: -1}, &RoutingError{Kind: RoutingNoRoute, Path: p.String()}
	}
	rewritten, err := ds.resolve(l, suffix)
	if err != nil {
		return store.Description{Size: -1}, err
	}
	describer, ok := l.Store.(store.Describer)
	if !ok {
		return store.Description{Size: -1}, &store.ReadError{Kind: store.ReadUnsupported, Path: p.String(), Reason: "describe is not supported by this store"}
	}
	return describer.Describe(ctx, rewritten)
}

// Delete dispatches a delete to the longest-prefix-matching layer; the
// layer's store must implement store.Deleter.
func (r *Router) Delete(ctx context.Context, p path.Path) error {
	ds := r.newDispatch()
	l, suffix, ok := r.match(p)
	if !ok {
		return &RoutingError{Kind: RoutingNoRoute, Path: p.String()}
	}
	rewritten, err := ds.resolve(l, suffix)
	if err != nil {
		return err
	}
	del, ok := l.Store.(store.Deleter)
	if !ok {
		return store.Unsupported(p.String())
	}
	return del.Delete(ctx, rewritten)
}
