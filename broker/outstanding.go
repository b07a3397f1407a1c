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

package broker

import (
	"sync"

	"github.com/google/btree"
)

// entryRef is the btree element: ordered by ID only, so the index can
// answer "list outstanding entries in request order" without a
// separate sort pass (mirrors storage/index.go's deltaBtree usage of
// btree.BTreeG over a small ordering key).
type entryRef struct {
	id int64
	e  *entry
}

func lessEntryRef(a, b entryRef) bool { return a.id < b.id }

// outstanding is the broker's live request table: a btree ordered by
// request id, which serves both the in-order listing and point lookup
// by id. The btree degree of 8 matches the teacher's own deltaBtree
// construction.
type outstanding struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[entryRef]
	nextID uint64
}

func newOutstanding() *outstanding {
	return &outstanding{tree: btree.NewG[entryRef](8, lessEntryRef)}
}

// allocate mints the next monotonically increasing request id and
// inserts a fresh Pending entry under it.
func (o *outstanding) allocate(req HttpRequest) *entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	e := newEntry(id, req)
	o.tree.ReplaceOrInsert(entryRef{id: int64(id), e: e})
	return e
}

func (o *outstanding) get(id uint64) *entry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ref, ok := o.tree.Get(entryRef{id: int64(id)})
	if !ok {
		return nil
	}
	return ref.e
}

// remove drops a terminal entry from the live index. Broker reads may
// keep observing a removed entry's cached response via their own
// pointer, but the index no longer lists it (spec.md §4.6: "once
// observed terminal, an entry may be garbage collected").
func (o *outstanding) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tree.Delete(entryRef{id: int64(id)})
}

// list returns every live entry in ascending id order.
func (o *outstanding) list() []*entry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*entry, 0, o.tree.Len())
	o.tree.Ascend(func(ref entryRef) bool {
		out = append(out, ref.e)
		return true
	})
	return out
}
