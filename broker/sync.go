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
	"context"
	"net/http"
	"strconv"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// DefaultTimeoutMs is used when neither a write nor the mount's own
// configured default sets timeout_ms.
const DefaultTimeoutMs = int64(30_000)

// SyncBroker is the synchronous HTTP broker variant (spec.md §4.6): a
// write allocates an entry and returns its handle path immediately; a
// read on that handle blocks until the request executes, then caches
// the terminal result so later reads observe the same response or
// error (property 8, "terminality is stable").
type SyncBroker struct {
	client         *http.Client
	out            *outstanding
	defaultTimeout int64
}

// NewSyncBroker builds a broker that falls back to DefaultTimeoutMs
// for requests that don't set their own timeout_ms.
func NewSyncBroker() *SyncBroker {
	return NewSyncBrokerWithTimeout(DefaultTimeoutMs)
}

// NewSyncBrokerWithTimeout is NewSyncBroker with the mount's own
// configured default (store.MountConfig.DefaultTimeoutMs, spec.md
// §4.6's "http_broker:<ms>" descriptor) instead of the package
// constant.
func NewSyncBrokerWithTimeout(defaultTimeoutMs int64) *SyncBroker {
	return &SyncBroker{client: &http.Client{}, out: newOutstanding(), defaultTimeout: defaultTimeoutMs}
}

// Write decodes rec into an HttpRequest, allocates an id, and returns
// the handle path outstanding/N without performing any network I/O
// (spec.md §4.6).
func (b *SyncBroker) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	v, err := rec.Value(value.JSONCodec{})
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}
	req, err := requestFromValue(v)
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}
	e := b.out.allocate(req)
	handle, joinErr := path.MustParse("outstanding").JoinString(strconv.FormatUint(e.ID, 10))
	if joinErr != nil {
		return path.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: joinErr.Error()}
	}
	return handle, nil
}

// Read executes the request the first time outstanding/N is read, and
// returns the cached terminal result on every subsequent read (spec.md
// §4.6, §8 property 7 "read is idempotent once terminal").
func (b *SyncBroker) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	if isOutstandingIndex(p) {
		rec := value.NewParsed(entryListValue(b.out.list()))
		return &rec, nil
	}

	id, rest, ok := parseOutstandingID(p)
	if !ok {
		return nil, nil
	}
	e := b.out.get(id)
	if e == nil {
		return nil, nil
	}

	if !rest.IsRoot() {
		if seg, ok := rest.LastSegment(); ok && seg == "state" {
			rec := value.NewParsed(value.NewString(e.State().String()))
			return &rec, nil
		}
		return nil, nil
	}

	if e.transitionExecuting() {
		execute(b.client, e, b.defaultTimeout)
	} else {
		e.waitTerminal(ctx)
	}

	state, resp, execErr := e.snapshot()
	if state == Cancelled {
		rec := value.NewParsed(stateValue(state, nil))
		return &rec, execErr
	}
	if execErr != nil {
		rec := value.NewParsed(stateValue(state, nil))
		return &rec, execErr
	}
	rec := value.NewParsed(stateValue(state, &resp))
	return &rec, nil
}

// Delete cancels an outstanding entry (best-effort, spec.md §4.6); a
// terminal entry cannot be cancelled and Delete reports Unsupported.
func (b *SyncBroker) Delete(ctx context.Context, p path.Path) error {
	id, rest, ok := parseOutstandingID(p)
	if !ok || !rest.IsRoot() {
		return store.Unsupported(p.String())
	}
	e := b.out.get(id)
	if e == nil {
		return store.Unsupported(p.String())
	}
	if !e.requestCancel() {
		return store.Unsupported(p.String())
	}
	return nil
}

func stateValue(state EntryState, resp *HttpResponse) value.Value {
	m := value.NewOrderedMap()
	m.Set("state", value.NewString(state.String()))
	if resp != nil {
		m.Set("response", responseToValue(*resp))
	} else {
		m.Set("response", value.NewNil())
	}
	return value.NewMap(m)
}

// isOutstandingIndex reports whether p addresses the outstanding index
// itself (bare "outstanding", no id): reading it lists every live
// entry's id and state without executing anything (spec.md §4.6).
func isOutstandingIndex(p path.Path) bool {
	segs := p.Segments()
	return len(segs) == 1 && segs[0] == "outstanding"
}

// entryListValue renders entries as the outstanding index's read
// result: an ordered slice of {id, state} maps, in ascending id order.
func entryListValue(entries []*entry) value.Value {
	out := make([]value.Value, len(entries))
	for i, e := range entries {
		m := value.NewOrderedMap()
		m.Set("id", value.NewInt(int64(e.ID)))
		m.Set("state", value.NewString(e.State().String()))
		out[i] = value.NewMap(m)
	}
	return value.NewSlice(out)
}

// parseOutstandingID recognizes outstanding/<id>[/rest...] and returns
// the id, the remaining subpath, and whether p matched at all.
func parseOutstandingID(p path.Path) (uint64, path.Path, bool) {
	segs := p.Segments()
	if len(segs) < 2 || segs[0] != "outstanding" {
		return 0, path.Root, false
	}
	id, err := strconv.ParseUint(segs[1], 10, 64)
	if err != nil {
		return 0, path.Root, false
	}
	rest := path.Root
	for _, s := range segs[2:] {
		rest, _ = rest.JoinString(s)
	}
	return id, rest, true
}
