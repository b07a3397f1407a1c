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

// Package local implements the "local" mount kind: a store backed by a
// directory tree on disk, one file per record plus a sidecar ".fmt"
// file recording the codec format it was written with (spec.md §3's
// "local" MountConfigKind).
package local

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	structpath "github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// Local mirrors the teacher's FileStorage: a base directory plus plain
// os/bufio file I/O, no database dependency (storage/persistence-files.go).
type Local struct {
	base string
}

func New(base string) (*Local, error) {
	if err := os.MkdirAll(base, 0750); err != nil {
		return nil, err
	}
	return &Local{base: base}, nil
}

func (l *Local) dataFile(p structpath.Path) string {
	segs := p.Segments()
	return filepath.Join(l.base, filepath.Join(segs...))
}

func (l *Local) fmtFile(p structpath.Path) string {
	return l.dataFile(p) + ".fmt"
}

func (l *Local) Read(ctx context.Context, p structpath.Path) (*value.Record, error) {
	data := l.dataFile(p)
	info, err := os.Stat(data)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if info.IsDir() {
		entries, err := os.ReadDir(data)
		if err != nil {
			return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			name := e.Name()
			if strings.HasSuffix(name, ".fmt") {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.NewString(n)
		}
		rec := value.NewParsed(value.NewSlice(out))
		return &rec, nil
	}

	f, err := os.Open(data)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	defer f.Close()
	raw, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}

	format := l.readFormat(p)
	rec := value.NewRaw(raw, format)
	return &rec, nil
}

func (l *Local) readFormat(p structpath.Path) value.Format {
	tag, err := os.ReadFile(l.fmtFile(p))
	if err != nil {
		return value.Unknown
	}
	return value.ParseFormat(strings.TrimSpace(string(tag)))
}

func (l *Local) Write(ctx context.Context, p structpath.Path, rec value.Record) (structpath.Path, error) {
	data := l.dataFile(p)
	if err := os.MkdirAll(filepath.Dir(data), 0750); err != nil {
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

	f, err := os.Create(data)
	if err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(raw); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if err := w.Flush(); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}

	if err := os.WriteFile(l.fmtFile(p), []byte(format.String()), 0640); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}

	return p, nil
}

// Describe implements store.Describer (spec.md §9's "meta lens"): the
// format tag, size, and whether p is a directory of subpaths.
func (l *Local) Describe(ctx context.Context, p structpath.Path) (store.Description, error) {
	data := l.dataFile(p)
	info, err := os.Stat(data)
	if err != nil {
		if os.IsNotExist(err) {
			return store.Description{Size: -1}, nil
		}
		return store.Description{Size: -1}, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if info.IsDir() {
		entries, err := os.ReadDir(data)
		if err != nil {
			return store.Description{Size: -1}, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !strings.HasSuffix(e.Name(), ".fmt") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		return store.Description{IsDir: true, Size: info.Size(), Subpaths: names}, nil
	}
	return store.Description{Format: l.readFormat(p), Size: info.Size()}, nil
}

func (l *Local) Delete(ctx context.Context, p structpath.Path) error {
	data := l.dataFile(p)
	if err := os.RemoveAll(data); err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	os.Remove(l.fmtFile(p))
	return nil
}
