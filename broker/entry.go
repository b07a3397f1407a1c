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
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/launix-de/structfs/value"
)

// EntryState is the per-entry lifecycle: Pending -> Executing ->
// (Succeeded | Failed | Cancelled) (spec.md §4.6).
type EntryState int

const (
	Pending EntryState = iota
	Executing
	Succeeded
	Failed
	Cancelled
)

func (s EntryState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Executing:
		return "executing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// entry is one outstanding broker request. ID is the btree ordering
// key (spec.md's "monotonically increasing request id"); mu guards
// the mutable state fields so concurrent reads of the same terminal
// entry always observe the cached result (spec.md §8 property 8).
type entry struct {
	ID      uint64
	Request HttpRequest

	mu       sync.Mutex
	state    EntryState
	response HttpResponse
	err      error
	cancel   context.CancelFunc
	done     chan struct{} // closed exactly once, when the entry reaches a terminal state
}

func newEntry(id uint64, req HttpRequest) *entry {
	return &entry{ID: id, Request: req, state: Pending, done: make(chan struct{})}
}

func (e *entry) State() EntryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *entry) snapshot() (EntryState, HttpResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.response, e.err
}

// transitionExecuting moves Pending -> Executing exactly once; returns
// false if the entry already left Pending (another reader is already
// executing it, or it was cancelled first).
func (e *entry) transitionExecuting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Pending {
		return false
	}
	e.state = Executing
	return true
}

// finish records a terminal outcome and wakes any readers blocked in
// waitTerminal. Calling finish twice is a no-op: the first call wins,
// matching "the read that first observes a failure returns it;
// subsequent reads return the same cached error" (spec.md §4.6).
func (e *entry) finish(state EntryState, resp HttpResponse, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Succeeded || e.state == Failed || e.state == Cancelled {
		return
	}
	e.state = state
	e.response = resp
	e.err = err
	close(e.done)
}

// requestCancel requests cancellation; a no-op returning false if the
// entry is already terminal (spec.md §4.6).
func (e *entry) requestCancel() bool {
	e.mu.Lock()
	cancelFn := e.cancel
	terminal := e.state == Succeeded || e.state == Failed || e.state == Cancelled
	e.mu.Unlock()
	if terminal {
		return false
	}
	if cancelFn != nil {
		cancelFn()
	}
	e.finish(Cancelled, HttpResponse{}, &HttpError{Kind: HttpCancelled, Reason: "cancelled via outstanding/.../cancel"})
	return true
}

// waitTerminal blocks until the entry reaches a terminal state or ctx
// is done, whichever comes first.
func (e *entry) waitTerminal(ctx context.Context) (EntryState, HttpResponse, error) {
	select {
	case <-e.done:
		return e.snapshot()
	case <-ctx.Done():
		return e.snapshot()
	}
}

// execute performs the actual HTTP round trip, mutating the entry to
// its terminal state. Shared by SyncBroker (called inline on read) and
// AsyncBroker (called from a worker goroutine immediately on write).
func execute(client *http.Client, e *entry, defaultTimeoutMs int64) {
	timeoutMs := e.Request.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = defaultTimeoutMs
	}
	ctx, cancelTimeout := context.WithTimeout(context.Background(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancelTimeout()

	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	resp, err := doRequest(ctx, client, e.Request)
	if err != nil {
		kind := HttpNetwork
		if ctx.Err() == context.DeadlineExceeded {
			kind = HttpTimeout
		} else if ctx.Err() == context.Canceled {
			kind = HttpCancelled
		} else {
			kind = classifyDialError(err)
		}
		e.finish(Failed, HttpResponse{}, &HttpError{Kind: kind, Reason: err.Error()})
		return
	}
	e.finish(Succeeded, resp, nil)
}

func doRequest(ctx context.Context, client *http.Client, req HttpRequest) (HttpResponse, error) {
	var bodyReader io.Reader
	if req.HasBody {
		b, err := value.JSONCodec{}.Encode(req.Body, value.JSON)
		if err != nil {
			return HttpResponse{}, err
		}
		bodyReader = strings.NewReader(string(b))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return HttpResponse{}, err
	}
	q := httpReq.URL.Query()
	for k, v := range req.Query {
		q.Set(k, v)
	}
	httpReq.URL.RawQuery = q.Encode()
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.HasBody && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return HttpResponse{}, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return HttpResponse{}, err
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	return decodeBody(httpResp.StatusCode, httpResp.Status, headers, raw), nil
}

// decodeBody implements spec.md §4.6's response serialization rule:
// JSON body for a JSON Content-Type, text for text/*, otherwise raw
// bytes.
func decodeBody(status int, statusText string, headers map[string]string, raw []byte) HttpResponse {
	resp := HttpResponse{Status: status, StatusText: statusText, Headers: headers}

	contentType := headers["Content-Type"]
	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch {
	case isJSONMediaType(mediaType):
		v, err := value.JSONCodec{}.Decode(raw, value.JSON)
		if err == nil {
			resp.Body = v
			text := string(raw)
			resp.BodyText = &text
			return resp
		}
		fallthrough
	case strings.HasPrefix(mediaType, "text/"):
		text := string(raw)
		resp.Body = value.NewString(text)
		resp.BodyText = &text
	default:
		resp.Body = value.NewBytes(raw)
	}
	return resp
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
