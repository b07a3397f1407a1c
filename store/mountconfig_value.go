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
	"fmt"

	"github.com/launix-de/structfs/value"
)

// MountConfigToValue renders cfg as a Value the way `read _mounts`
// reports it and `write _mounts/<name>` accepts it as a JSON body
// (spec.md §6).
func MountConfigToValue(cfg MountConfig) value.Value {
	m := value.NewOrderedMap()
	m.Set("kind", value.NewString(cfg.Kind.String()))
	if cfg.Path != "" {
		m.Set("path", value.NewString(cfg.Path))
	}
	if cfg.Driver != "" {
		m.Set("driver", value.NewString(cfg.Driver))
	}
	if cfg.DSN != "" {
		m.Set("dsn", value.NewString(cfg.DSN))
	}
	if cfg.Table != "" {
		m.Set("table", value.NewString(cfg.Table))
	}
	if cfg.Bucket != "" {
		m.Set("bucket", value.NewString(cfg.Bucket))
	}
	if cfg.Prefix != "" {
		m.Set("prefix", value.NewString(cfg.Prefix))
	}
	if cfg.Endpoint != "" {
		m.Set("endpoint", value.NewString(cfg.Endpoint))
	}
	if cfg.Region != "" {
		m.Set("region", value.NewString(cfg.Region))
	}
	if cfg.URL != "" {
		m.Set("url", value.NewString(cfg.URL))
	}
	if cfg.DefaultTimeoutMs != 0 {
		m.Set("default_timeout_ms", value.NewInt(cfg.DefaultTimeoutMs))
	}
	return value.NewMap(m)
}

// MountConfigFromValue parses the inverse of MountConfigToValue.
func MountConfigFromValue(v value.Value) (MountConfig, error) {
	if v.Kind() != value.KindMap {
		return MountConfig{}, fmt.Errorf("store: mount config must be a JSON object")
	}
	m := v.Map()
	kindStr, ok := m.Get("kind")
	if !ok || kindStr.Kind() != value.KindString {
		return MountConfig{}, fmt.Errorf("store: mount config requires a string \"kind\" field")
	}
	kind, err := parseMountConfigKind(kindStr.String())
	if err != nil {
		return MountConfig{}, err
	}
	// 30000 mirrors mountspec.Parse's own default for the
	// http_broker/async_http_broker descriptor grammar, so a mount
	// installed via the _mounts/ wire path without an explicit
	// default_timeout_ms behaves the same as one installed from a
	// descriptor string.
	cfg := MountConfig{Kind: kind, DefaultTimeoutMs: 30000}
	str := func(key string) string {
		if v, ok := m.Get(key); ok && v.Kind() == value.KindString {
			return v.String()
		}
		return ""
	}
	cfg.Path = str("path")
	cfg.Driver = str("driver")
	cfg.DSN = str("dsn")
	cfg.Table = str("table")
	cfg.Bucket = str("bucket")
	cfg.Prefix = str("prefix")
	cfg.Endpoint = str("endpoint")
	cfg.Region = str("region")
	cfg.URL = str("url")
	if v, ok := m.Get("default_timeout_ms"); ok && v.Kind() == value.KindInt {
		cfg.DefaultTimeoutMs = v.Int()
	}
	return cfg, nil
}

func parseMountConfigKind(s string) (MountConfigKind, error) {
	for _, k := range []MountConfigKind{
		KindMemory, KindLocal, KindSQL, KindS3, KindCeph, KindHTTP,
		KindHTTPBroker, KindAsyncHTTPBroker, KindStructfs, KindHelp, KindSys,
	} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("store: unknown mount config kind %q", s)
}
