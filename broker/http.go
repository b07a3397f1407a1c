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

// Package broker implements the HTTP broker: the two-verb
// deferred-execution pattern where write enqueues a request and read
// executes (or observes) it, in both synchronous and
// background-executing variants (spec.md §4.6).
package broker

import (
	"fmt"
	"strings"

	"github.com/launix-de/structfs/value"
)

// HttpRequest is the record shape a client writes into the broker
// (spec.md §6).
type HttpRequest struct {
	Method    string
	URL       string
	Query     map[string]string
	Headers   map[string]string
	Body      value.Value
	HasBody   bool
	TimeoutMs int64
}

// HttpResponse is the record shape a terminal read returns (spec.md
// §6). BodyText mirrors the decoded-as-text view when the response
// Content-Type allows it.
type HttpResponse struct {
	Status     int
	StatusText string
	Headers    map[string]string
	Body       value.Value
	BodyText   *string
}

// IsSuccess, IsClientError and IsServerError are pure functions of
// Status (spec.md §4.6).
func (r HttpResponse) IsSuccess() bool     { return r.Status >= 200 && r.Status < 300 }
func (r HttpResponse) IsClientError() bool { return r.Status >= 400 && r.Status < 500 }
func (r HttpResponse) IsServerError() bool { return r.Status >= 500 && r.Status < 600 }

// HttpErrorKind enumerates the ways a broker-dispatched request can
// fail (spec.md §7).
type HttpErrorKind int

const (
	HttpNetwork HttpErrorKind = iota
	HttpDNS
	HttpTLS
	HttpTimeout
	HttpCancelled
	HttpMalformedResponse
)

type HttpError struct {
	Kind   HttpErrorKind
	Reason string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("broker: http %s: %s", e.kindString(), e.Reason)
}

func (e *HttpError) kindString() string {
	switch e.Kind {
	case HttpDNS:
		return "dns"
	case HttpTLS:
		return "tls"
	case HttpTimeout:
		return "timeout"
	case HttpCancelled:
		return "cancelled"
	case HttpMalformedResponse:
		return "malformed-response"
	default:
		return "network"
	}
}

// classifyDialError maps a low-level error's text to an HttpErrorKind.
// Go's net/http does not expose a typed taxonomy across DNS/TLS/network
// failures, so — matching the teacher's own pragmatic string-sniffing
// in storage/mysql_import.go's error handling — this inspects the
// error text for recognizable substrings.
func classifyDialError(err error) HttpErrorKind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "lookup"):
		return HttpDNS
	case strings.Contains(msg, "tls") || strings.Contains(msg, "x509") || strings.Contains(msg, "certificate"):
		return HttpTLS
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return HttpTimeout
	case strings.Contains(msg, "context canceled"):
		return HttpCancelled
	default:
		return HttpNetwork
	}
}

// requestFromValue decodes a Value matching the HttpRequest wire shape
// (spec.md §6).
func requestFromValue(v value.Value) (HttpRequest, error) {
	if v.Kind() != value.KindMap {
		return HttpRequest{}, fmt.Errorf("broker: HttpRequest must be a JSON object")
	}
	m := v.Map()
	req := HttpRequest{Query: map[string]string{}, Headers: map[string]string{}}

	if mv, ok := m.Get("method"); ok {
		req.Method = mv.String()
	} else {
		req.Method = "GET"
	}
	if pv, ok := m.Get("path"); ok {
		req.URL = pv.String()
	} else if pv, ok := m.Get("url"); ok {
		req.URL = pv.String()
	}
	if qv, ok := m.Get("query"); ok && qv.Kind() == value.KindMap {
		for _, k := range qv.Map().Keys() {
			val, _ := qv.Map().Get(k)
			req.Query[k] = val.String()
		}
	}
	if hv, ok := m.Get("headers"); ok && hv.Kind() == value.KindMap {
		for _, k := range hv.Map().Keys() {
			val, _ := hv.Map().Get(k)
			req.Headers[k] = val.String()
		}
	}
	if bv, ok := m.Get("body"); ok && !bv.IsNil() {
		req.Body = bv
		req.HasBody = true
	}
	if tv, ok := m.Get("timeout_ms"); ok && tv.Kind() == value.KindInt {
		req.TimeoutMs = tv.Int()
	}
	return req, nil
}

// responseToValue renders an HttpResponse in the wire shape spec.md §6
// defines for a terminal read.
func responseToValue(resp HttpResponse) value.Value {
	m := value.NewOrderedMap()
	m.Set("status", value.NewInt(int64(resp.Status)))
	m.Set("status_text", value.NewString(resp.StatusText))

	headers := value.NewOrderedMap()
	for k, v := range resp.Headers {
		headers.Set(k, value.NewString(v))
	}
	m.Set("headers", value.NewMap(headers))
	m.Set("body", resp.Body)
	if resp.BodyText != nil {
		m.Set("body_text", value.NewString(*resp.BodyText))
	} else {
		m.Set("body_text", value.NewNil())
	}
	return value.NewMap(m)
}
