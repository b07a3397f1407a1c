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

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

// Reader exposes read(path) -> Option<Record> | ReadError (spec.md
// §4.3). A nil Record with a nil error means the path is absent. The
// contract permits side effects on read; implementations that are
// observably idempotent SHOULD also embed PureReader.
type Reader interface {
	Read(ctx context.Context, p path.Path) (*value.Record, error)
}

// PureReader is a marker interface a Reader embeds to advertise that
// its reads are observably idempotent (spec.md §9, "stateful vs pure
// reads"). It adds one no-op marker method, PureRead; overlay.Router
// type-asserts for it before allowing fallthrough to treat a negative
// result as stable.
type PureReader interface {
	Reader
	PureRead()
}

// Writer exposes write(path, record) -> Path | WriteError. The
// returned path is the effective path the write landed at, which may
// differ from the requested path (spec.md §4.3).
type Writer interface {
	Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error)
}

// Deleter is optional; stores that do not support delete return
// Unsupported(path) rather than implementing this interface with a
// constant failure — callers type-assert for Deleter before calling.
type Deleter interface {
	Delete(ctx context.Context, p path.Path) error
}

// Describer is the §9 "meta lens" capability: format, size, and
// subpath affordances without overloading Record.
type Describer interface {
	Describe(ctx context.Context, p path.Path) (Description, error)
}

// Description is what a Describer reports about a path.
type Description struct {
	Format     value.Format
	Size       int64 // -1 when unknown
	IsDir      bool
	Subpaths   []string
}

// StoreRegistration is optional metadata a store advertises to its
// host: a documentation subpath and a human name. Not load-bearing
// for correctness (spec.md §3).
type StoreRegistration struct {
	Name       string
	DocsPath   string
}

// Store bundles the contracts a mounted layer is expected to satisfy
// at minimum. Delete and Describe are satisfied via optional
// type-assertion (Deleter, Describer), not embedded here, since not
// every store supports them.
type Store interface {
	Reader
	Writer
}
