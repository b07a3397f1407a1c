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

import "fmt"

// MountConfigKind tags which MountConfig variant a descriptor carries
// (spec.md §3: "Extensible via a factory plug-in interface"). The
// variant set here is the distilled spec's six plus the domain-stack
// additions SPEC_FULL.md §3 names.
type MountConfigKind int

const (
	KindMemory MountConfigKind = iota
	KindLocal
	KindSQL
	KindS3
	KindCeph
	KindHTTP
	KindHTTPBroker
	KindAsyncHTTPBroker
	KindStructfs
	KindHelp
	KindSys
)

func (k MountConfigKind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindLocal:
		return "local"
	case KindSQL:
		return "sql"
	case KindS3:
		return "s3"
	case KindCeph:
		return "ceph"
	case KindHTTP:
		return "http"
	case KindHTTPBroker:
		return "http_broker"
	case KindAsyncHTTPBroker:
		return "async_http_broker"
	case KindStructfs:
		return "structfs"
	case KindHelp:
		return "help"
	case KindSys:
		return "sys"
	default:
		return "unknown"
	}
}

// MountConfig is the configuration descriptor a Factory turns into an
// owned store (spec.md §3). Only the fields relevant to Kind are
// populated; the rest are zero values. Kept as one flat struct rather
// than an interface hierarchy to match the teacher's own
// PersistenceFactory call shape (storage/persistence.go), which
// dispatches on a handful of scalar fields rather than a type switch
// over implementations.
type MountConfig struct {
	Kind MountConfigKind

	// KindLocal
	Path string

	// KindSQL
	Driver string
	DSN    string
	Table  string

	// KindS3, KindCeph
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string

	// KindHTTP, KindStructfs
	URL string

	// KindHTTPBroker, KindAsyncHTTPBroker
	DefaultTimeoutMs int64
}

// Factory is the dependency-injected function from MountConfig to an
// owned store (spec.md §4.5: "the only point that knows about
// concrete store variants").
type Factory func(cfg MountConfig) (Store, error)

// ErrUnknownMountKind is returned by a Factory given a MountConfigKind
// it does not implement.
type ErrUnknownMountKind struct {
	Kind MountConfigKind
}

func (e *ErrUnknownMountKind) Error() string {
	return fmt.Sprintf("store: factory does not implement mount kind %q", e.Kind)
}
