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
	"sync"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

// Memory is an in-process Record store guarded by a single mutex, the
// same shape as the teacher's package-level `databases` map plus
// `databaselock` in storage/database.go, generalized from "name to
// *database" to "path to Record".
type Memory struct {
	mu   sync.RWMutex
	data map[string]value.Record
}

// NewMemory returns a ready-to-use, empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]value.Record)}
}

// PureRead marks Memory as a PureReader: reading never mutates state,
// so overlay.Router may treat a negative result as stable.
func (m *Memory) PureRead() {}

func (m *Memory) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.data[p.String()]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p.String()] = rec
	return p, nil
}

func (m *Memory) Delete(ctx context.Context, p path.Path) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.String()
	if _, ok := m.data[key]; !ok {
		return nil
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Describe(ctx context.Context, p path.Path) (Description, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := p.String()
	rec, ok := m.data[prefix]
	if ok {
		size := int64(-1)
		if rec.IsRaw() || rec.IsLazy() {
			size = int64(len(rec.Bytes()))
		}
		return Description{Format: rec.Format(), Size: size}, nil
	}
	var subpaths []string
	for k := range m.data {
		if child, ok := stripImmediateChild(prefix, k); ok {
			subpaths = append(subpaths, child)
		}
	}
	return Description{IsDir: true, Size: -1, Subpaths: subpaths}, nil
}

// stripImmediateChild returns the first segment of key below prefix,
// when key genuinely lives under prefix.
func stripImmediateChild(prefix, key string) (string, bool) {
	if prefix == "" {
		if key == "" {
			return "", false
		}
		for i, c := range key {
			if c == '/' {
				return key[:i], true
			}
		}
		return key, true
	}
	if len(key) <= len(prefix)+1 || key[:len(prefix)] != prefix || key[len(prefix)] != '/' {
		return "", false
	}
	rest := key[len(prefix)+1:]
	for i, c := range rest {
		if c == '/' {
			return rest[:i], true
		}
	}
	return rest, true
}
