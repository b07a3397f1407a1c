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
	"time"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// AsyncBroker is the background-executing HTTP broker variant (spec.md
// §4.6): a write dispatches the request to a worker goroutine
// immediately and returns the handle path without blocking; a read on
// that handle observes whatever state the entry has reached, blocking
// only if the caller opts in via outstanding/N/response (the "blocking
// response" subpath). Cancellation is best-effort via
// write(outstanding/N/cancel, _).
type AsyncBroker struct {
	client         *http.Client
	out            *outstanding
	defaultTimeout int64
}

// NewAsyncBroker builds a broker that falls back to DefaultTimeoutMs
// for requests that don't set their own timeout_ms.
func NewAsyncBroker() *AsyncBroker {
	return NewAsyncBrokerWithTimeout(DefaultTimeoutMs)
}

// NewAsyncBrokerWithTimeout is NewAsyncBroker with the mount's own
// configured default (store.MountConfig.DefaultTimeoutMs, spec.md
// §4.6's "async_http_broker:<ms>" descriptor) instead of the package
// constant.
func NewAsyncBrokerWithTimeout(defaultTimeoutMs int64) *AsyncBroker {
	return &AsyncBroker{client: &http.Client{}, out: newOutstanding(), defaultTimeout: defaultTimeoutMs}
}

// Write on the root path enqueues a new request and dispatches it to a
// worker goroutine before returning (spec.md §4.6: "write never
// blocks on network I/O"). Write on outstanding/N/cancel is the
// best-effort cancellation entry point.
func (b *AsyncBroker) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if id, rest, ok := parseOutstandingID(p); ok {
		if seg, segOk := rest.LastSegment(); segOk && seg == "cancel" {
			e := b.out.get(id)
			if e == nil {
				return path.Root, &store.WriteError{Kind: store.WriteUnsupported, Path: p.String(), Reason: "unknown outstanding id"}
			}
			e.requestCancel()
			return p, nil
		}
		return path.Root, &store.WriteError{Kind: store.WriteUnsupported, Path: p.String(), Reason: "writes only create new requests at the broker root or cancel an outstanding one"}
	}

	v, err := rec.Value(value.JSONCodec{})
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}
	req, err := requestFromValue(v)
	if err != nil {
		return path.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}

	e := b.out.allocate(req)
	e.transitionExecuting()
	go execute(b.client, e, b.defaultTimeout)

	handle, joinErr := path.MustParse("outstanding").JoinString(strconv.FormatUint(e.ID, 10))
	if joinErr != nil {
		return path.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: joinErr.Error()}
	}
	return handle, nil
}

// Read reports the entry's current state non-blockingly, except under
// outstanding/N/response, which blocks until the entry is terminal (or
// the request's own timeout elapses) before returning the response or
// error (spec.md §4.6).
func (b *AsyncBroker) Read(ctx context.Context, p path.Path) (*value.Record, error) {
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

	seg, hasSeg := rest.LastSegment()
	switch {
	case rest.IsRoot():
		state, resp, execErr := e.snapshot()
		if isTerminal(state) {
			if execErr != nil {
				rec := value.NewParsed(stateValue(state, nil))
				return &rec, execErr
			}
			rec := value.NewParsed(stateValue(state, &resp))
			return &rec, nil
		}
		rec := value.NewParsed(stateValue(state, nil))
		return &rec, nil

	case hasSeg && seg == "state":
		rec := value.NewParsed(value.NewString(e.State().String()))
		return &rec, nil

	case hasSeg && seg == "response":
		waitCtx := ctx
		if e.Request.TimeoutMs > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, time.Duration(e.Request.TimeoutMs)*time.Millisecond)
			defer cancel()
		}
		state, resp, execErr := e.waitTerminal(waitCtx)
		if !isTerminal(state) {
			return nil, &HttpError{Kind: HttpTimeout, Reason: "response not ready within the wait deadline"}
		}
		if execErr != nil {
			rec := value.NewParsed(stateValue(state, nil))
			return &rec, execErr
		}
		rec := value.NewParsed(stateValue(state, &resp))
		return &rec, nil

	default:
		return nil, nil
	}
}

// Delete is equivalent to write(outstanding/N/cancel, _) (spec.md
// §4.6).
func (b *AsyncBroker) Delete(ctx context.Context, p path.Path) error {
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

func isTerminal(s EntryState) bool {
	return s == Succeeded || s == Failed || s == Cancelled
}
