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

// Package httpd exposes a Registry over HTTP (spec.md §6): GET /read,
// POST /write, DELETE /delete. Built directly on net/http, the way the
// teacher builds its own HTTPServe handler (scm/network.go) rather
// than reaching for a router framework.
package httpd

import (
	"context"
	"io"
	"net/http"
	"time"

	units "github.com/docker/go-units"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// Backend is the subset of mount.Registry the handler needs; kept as
// an interface so tests can substitute a bare overlay.Router or a
// single store.Store.
type Backend interface {
	store.Store
	Delete(ctx context.Context, p path.Path) error
}

// Server wraps Backend behind the spec.md §6 wire surface.
type Server struct {
	backend Backend
	mux     *http.ServeMux
}

func New(backend Backend) *Server {
	s := &Server{backend: backend, mux: http.NewServeMux()}
	s.mux.HandleFunc("/read", s.handleRead)
	s.mux.HandleFunc("/write", s.handleWrite)
	s.mux.HandleFunc("/delete", s.handleDelete)
	s.mux.HandleFunc("/meta", s.handleMeta)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// NewHTTPServer builds an *http.Server with the same generous
// read/write timeouts the teacher's HTTPServe sets (scm/network.go).
func NewHTTPServer(addr string, backend Backend) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        New(backend),
		ReadTimeout:    300 * time.Second,
		WriteTimeout:   300 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

func writeJSON(w http.ResponseWriter, status int, v value.Value) {
	body, err := value.JSONCodec{}.Encode(v, value.JSON)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func errorEnvelope(reason string) value.Value {
	m := value.NewOrderedMap()
	m.Set("error", value.NewString(reason))
	return value.NewMap(m)
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	p, err := path.Parse(r.URL.Query().Get("path"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(err.Error()))
		return
	}

	rec, err := s.backend.Read(r.Context(), p)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope(err.Error()))
		return
	}

	m := value.NewOrderedMap()
	if rec == nil {
		m.Set("value", value.NewNil())
	} else {
		v, err := rec.Value(value.JSONCodec{})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorEnvelope(err.Error()))
			return
		}
		m.Set("value", v)
	}
	writeJSON(w, http.StatusOK, value.NewMap(m))
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	p, err := path.Parse(r.URL.Query().Get("path"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(err.Error()))
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(err.Error()))
		return
	}
	v, err := value.JSONCodec{}.Decode(raw, value.JSON)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(err.Error()))
		return
	}

	effective, err := s.backend.Write(r.Context(), p, value.NewParsed(v))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope(err.Error()))
		return
	}

	m := value.NewOrderedMap()
	m.Set("result_path", value.NewString(effective.String()))
	writeJSON(w, http.StatusOK, value.NewMap(m))
}

// handleMeta is spec.md §9's "meta lens": a read-only view of
// store.Describer, exposed as a third verb rather than overloading
// Record with metadata. Backends that don't implement Describer report
// it as unsupported instead of a 500.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	p, err := path.Parse(r.URL.Query().Get("path"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(err.Error()))
		return
	}

	describer, ok := s.backend.(store.Describer)
	if !ok {
		writeJSON(w, http.StatusOK, errorEnvelope("meta is not supported by this mount"))
		return
	}

	desc, err := describer.Describe(r.Context(), p)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope(err.Error()))
		return
	}

	m := value.NewOrderedMap()
	m.Set("format", value.NewString(desc.Format.String()))
	m.Set("is_dir", value.NewBool(desc.IsDir))
	if desc.Size >= 0 {
		m.Set("size", value.NewInt(desc.Size))
		m.Set("human_size", value.NewString(units.HumanSize(float64(desc.Size))))
	}
	if desc.Subpaths != nil {
		names := make([]value.Value, len(desc.Subpaths))
		for i, n := range desc.Subpaths {
			names[i] = value.NewString(n)
		}
		m.Set("subpaths", value.NewSlice(names))
	}
	writeJSON(w, http.StatusOK, value.NewMap(m))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, err := path.Parse(r.URL.Query().Get("path"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(err.Error()))
		return
	}
	if err := s.backend.Delete(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope(err.Error()))
		return
	}
	m := value.NewOrderedMap()
	m.Set("ok", value.NewBool(true))
	writeJSON(w, http.StatusOK, value.NewMap(m))
}
