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
	"sort"
	"sync"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

// Help is the read-only StoreRegistration docs store: each registered
// layer shows up here under its mount prefix, reporting its name and
// DocsPath (spec.md §3, §6 "read <mount>/<docs_subpath>").
type Help struct {
	mu      sync.RWMutex
	entries map[string]StoreRegistration
}

// NewHelp returns an empty Help store.
func NewHelp() *Help {
	return &Help{entries: make(map[string]StoreRegistration)}
}

func (h *Help) PureRead() {}

// Register records a mounted layer's self-description under its mount
// prefix. Called by mount.Registry on a successful Mount.
func (h *Help) Register(prefix string, reg StoreRegistration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[prefix] = reg
}

// Unregister drops a prefix's description. Called on Unmount.
func (h *Help) Unregister(prefix string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, prefix)
}

func (h *Help) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if p.IsRoot() {
		return h.index(), nil
	}
	reg, ok := h.entries[p.String()]
	if !ok {
		return nil, nil
	}
	m := value.NewOrderedMap()
	m.Set("name", value.NewString(reg.Name))
	m.Set("docs_path", value.NewString(reg.DocsPath))
	rec := value.NewParsed(value.NewMap(m))
	return &rec, nil
}

func (h *Help) index() *value.Record {
	prefixes := make([]string, 0, len(h.entries))
	for prefix := range h.entries {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	entries := make([]value.Value, 0, len(prefixes))
	for _, prefix := range prefixes {
		reg := h.entries[prefix]
		m := value.NewOrderedMap()
		m.Set("prefix", value.NewString(prefix))
		m.Set("name", value.NewString(reg.Name))
		m.Set("docs_path", value.NewString(reg.DocsPath))
		entries = append(entries, value.NewMap(m))
	}
	rec := value.NewParsed(value.NewSlice(entries))
	return &rec
}

func (h *Help) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	return p, &WriteError{Kind: WriteUnsupported, Path: p.String(), Reason: "help is a read-only store"}
}
