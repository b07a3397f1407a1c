//go:build ceph

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

// Package cephstore implements the "ceph" mount kind over RADOS
// objects (build tag "ceph"), laid out the way the teacher's
// Ceph-backed column storage does (storage/persistence-ceph.go): one
// object per record under a pool-relative prefix, with a companion
// "<name>.fmt" object for the codec tag.
package cephstore

import (
	"context"
	"strings"
	"sync"

	"github.com/ceph/go-ceph/rados"

	structpath "github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// Options mirrors the teacher's CephFactory fields.
type Options struct {
	UserName    string
	ClusterName string
	ConfFile    string
	Pool        string
	Prefix      string
}

type Ceph struct {
	opts Options

	mu     sync.Mutex
	conn   *rados.Conn
	ioctx  *rados.IOContext
	opened bool
}

func New(opts Options) *Ceph {
	return &Ceph{opts: opts}
}

func (c *Ceph) ensureOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened {
		return nil
	}

	conn, err := rados.NewConnWithClusterAndUser(c.opts.ClusterName, c.opts.UserName)
	if err != nil {
		return err
	}
	if c.opts.ConfFile != "" {
		if err := conn.ReadConfigFile(c.opts.ConfFile); err != nil {
			return err
		}
	} else {
		_ = conn.ReadDefaultConfigFile()
	}
	if err := conn.Connect(); err != nil {
		return err
	}
	ioctx, err := conn.OpenIOContext(c.opts.Pool)
	if err != nil {
		conn.Shutdown()
		return err
	}

	c.conn = conn
	c.ioctx = ioctx
	c.opened = true
	return nil
}

func (c *Ceph) obj(p structpath.Path) string {
	pfx := strings.TrimSuffix(c.opts.Prefix, "/")
	if pfx == "" {
		return p.String()
	}
	if p.IsRoot() {
		return pfx
	}
	return pfx + "/" + p.String()
}

func (c *Ceph) fmtObj(p structpath.Path) string { return c.obj(p) + ".fmt" }

func (c *Ceph) Read(ctx context.Context, p structpath.Path) (*value.Record, error) {
	if err := c.ensureOpen(); err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	name := c.obj(p)
	stat, err := c.ioctx.Stat(name)
	if err != nil {
		return nil, nil
	}
	data := make([]byte, stat.Size)
	n, err := c.ioctx.Read(name, data, 0)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}

	format := value.Unknown
	if fmtStat, err := c.ioctx.Stat(c.fmtObj(p)); err == nil {
		tag := make([]byte, fmtStat.Size)
		if fn, err := c.ioctx.Read(c.fmtObj(p), tag, 0); err == nil {
			format = value.ParseFormat(strings.TrimSpace(string(tag[:fn])))
		}
	}

	rec := value.NewRaw(data[:n], format)
	return &rec, nil
}

func (c *Ceph) Write(ctx context.Context, p structpath.Path, rec value.Record) (structpath.Path, error) {
	if err := c.ensureOpen(); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}

	var raw []byte
	var format value.Format
	if rec.IsRaw() || rec.IsLazy() {
		raw = rec.Bytes()
		format = rec.Format()
	} else {
		v, err := rec.Value(value.NoCodec{})
		if err != nil {
			return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
		}
		encoded, err := value.JSONCodec{}.Encode(v, value.JSON)
		if err != nil {
			return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
		}
		raw = encoded
		format = value.JSON
	}

	if err := c.ioctx.WriteFull(c.obj(p), raw); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if err := c.ioctx.WriteFull(c.fmtObj(p), []byte(format.String())); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	return p, nil
}

func (c *Ceph) Delete(ctx context.Context, p structpath.Path) error {
	if err := c.ensureOpen(); err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if err := c.ioctx.Delete(c.obj(p)); err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	c.ioctx.Delete(c.fmtObj(p))
	return nil
}

func (c *Ceph) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return nil
	}
	c.ioctx.Destroy()
	c.conn.Shutdown()
	c.opened = false
	return nil
}
