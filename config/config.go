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

// Package config holds structfsd's flag-parsed startup configuration.
package config

import (
	"encoding/json"
	"flag"
	"os"
)

// Config is the daemon's startup configuration: a listen address and
// an initial set of mounts to install before serving traffic.
type Config struct {
	Addr      string
	MountFile string
}

// Parse builds a Config from command-line flags, mirroring the
// teacher's Settings struct (storage/settings.go) in spirit: one flat
// struct, defaults baked in, populated once at startup.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("structfsd", flag.ContinueOnError)
	addr := fs.String("addr", ":8089", "listen address for the HTTP surface")
	mountFile := fs.String("mounts", "", "path to a JSON file listing initial mounts (optional)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Config{Addr: *addr, MountFile: *mountFile}, nil
}

// MountSpec is one entry in the JSON array a -mounts file holds: a
// prefix plus the descriptor string mountspec.Parse accepts (spec.md
// §3's "kind[:rest]" grammar).
type MountSpec struct {
	Prefix     string `json:"prefix"`
	Descriptor string `json:"descriptor"`
}

// LoadMounts reads path as a JSON array of MountSpec; an empty path is
// not an error, it just yields no mounts.
func LoadMounts(path string) ([]MountSpec, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs []MountSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}
