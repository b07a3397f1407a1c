//go:build !ceph

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

// Package cephstore is a stub when Ceph support is not compiled in.
// Build with -tags=ceph to enable the real RADOS-backed store
// (mirrors storage/persistence-ceph-stub.go's approach).
package cephstore

import (
	"context"
	"errors"

	structpath "github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

// Options mirrors the ceph-tagged build's field set so callers compile
// either way.
type Options struct {
	UserName    string
	ClusterName string
	ConfFile    string
	Pool        string
	Prefix      string
}

type Ceph struct{}

var errNotCompiledIn = errors.New("cephstore: ceph support not compiled in; build with -tags=ceph")

func New(opts Options) *Ceph { return &Ceph{} }

func (c *Ceph) Read(ctx context.Context, p structpath.Path) (*value.Record, error) {
	return nil, errNotCompiledIn
}

func (c *Ceph) Write(ctx context.Context, p structpath.Path, rec value.Record) (structpath.Path, error) {
	return structpath.Root, errNotCompiledIn
}

func (c *Ceph) Delete(ctx context.Context, p structpath.Path) error {
	return errNotCompiledIn
}

func (c *Ceph) Close() error { return nil }
