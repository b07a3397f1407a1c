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

// Package httpstore implements the "http"/"structfs" mount kinds: a
// client that speaks the wire surface a structfsd exposes (spec.md
// §6: GET /read, POST /write, DELETE /delete), so one daemon can mount
// another's namespace as a layer.
package httpstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	structpath "github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// HTTP is a remote store client over a structfsd base URL.
type HTTP struct {
	base   string
	client *http.Client
}

func New(baseURL string) *HTTP {
	return &HTTP{base: strings.TrimSuffix(baseURL, "/"), client: &http.Client{}}
}

func (h *HTTP) endpoint(op string, p structpath.Path) string {
	v := url.Values{}
	v.Set("path", p.String())
	return fmt.Sprintf("%s/%s?%s", h.base, op, v.Encode())
}

func (h *HTTP) Read(ctx context.Context, p structpath.Path) (*value.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint("read", p), nil)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &store.ReadError{Kind: store.ReadRemoteError, Path: p.String(), Reason: string(raw), Status: resp.StatusCode}
	}

	env, err := value.JSONCodec{}.Decode(raw, value.JSON)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadDecodeFailed, Path: p.String(), Reason: err.Error()}
	}
	if env.Kind() != value.KindMap {
		return nil, &store.ReadError{Kind: store.ReadDecodeFailed, Path: p.String(), Reason: "malformed /read envelope"}
	}
	m := env.Map()
	if errv, ok := m.Get("error"); ok && !errv.IsNil() {
		return nil, &store.ReadError{Kind: store.ReadRemoteError, Path: p.String(), Reason: errv.String(), Status: resp.StatusCode}
	}
	val, ok := m.Get("value")
	if !ok || val.IsNil() {
		return nil, nil
	}
	rec := value.NewParsed(val)
	return &rec, nil
}

func (h *HTTP) Write(ctx context.Context, p structpath.Path, rec value.Record) (structpath.Path, error) {
	v, err := rec.Value(value.JSONCodec{})
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}
	body, err := value.JSONCodec{}.Encode(v, value.JSON)
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint("write", p), bytes.NewReader(body))
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return structpath.Root, &store.WriteError{Kind: store.WriteRemoteError, Path: p.String(), Reason: string(raw), Status: resp.StatusCode}
	}

	env, err := value.JSONCodec{}.Decode(raw, value.JSON)
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
	}
	m := env.Map()
	if errv, ok := m.Get("error"); ok && !errv.IsNil() {
		return structpath.Root, &store.WriteError{Kind: store.WriteRemoteError, Path: p.String(), Reason: errv.String(), Status: resp.StatusCode}
	}
	resultPath, ok := m.Get("result_path")
	if !ok {
		return p, nil
	}
	effective, err := structpath.Parse(resultPath.String())
	if err != nil {
		return p, nil
	}
	return effective, nil
}

func (h *HTTP) Delete(ctx context.Context, p structpath.Path) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, h.endpoint("delete", p), nil)
	if err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return &store.DeleteError{Kind: store.DeleteRemoteError, Path: p.String(), Reason: string(raw), Status: resp.StatusCode}
	}
	return nil
}
