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

// Package mountspec parses the compact textual mount descriptor
// strings that cmd/structfsd reads from the entries of its -mounts
// file. `write _mounts/<name>` does not use this parser: it takes a
// JSON MountConfig object only.
// The outer "kind:rest" shape is parsed with github.com/launix-de/go-packrat/v2,
// the same combinator library the teacher uses for its Scheme reader
// in scm/packrat.go; the per-kind "rest" substring is then split by
// plain string operations, the way the teacher's own reader defers to
// ordinary Go code once a sub-form's outer shape is recognized.
package mountspec

import (
	"fmt"
	"strconv"
	"strings"

	packrat "github.com/launix-de/go-packrat/v2"

	"github.com/launix-de/structfs/store"
)

var descriptorParser packrat.Parser

func init() {
	kind := packrat.NewRegexParser("[A-Za-z_][A-Za-z0-9_]*")
	colon := packrat.NewAtomParser(":")
	rest := packrat.NewRegexParser(".*")
	tail := packrat.NewMaybeParser(packrat.NewAndParser(colon, rest))
	descriptorParser = packrat.NewAndParser(kind, tail, packrat.NewEndParser())
}

// ParseError reports a descriptor string that does not match the
// "kind" or "kind:rest" grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mountspec: cannot parse %q: %s", e.Input, e.Reason)
}

// Parse turns a compact textual descriptor into a store.MountConfig.
// Examples: "memory", "help", "sys", "local:/var/lib/structfs/data",
// "s3:bucket/prefix", "sql:mysql:user:pass@tcp(host:3306)/db#table",
// "http:http://example.test", "structfs:http://peer:8080".
func Parse(s string) (store.MountConfig, error) {
	scanner := packrat.NewScanner(s, nil)
	node, err := packrat.Parse(descriptorParser, scanner)
	if err != nil || node == nil {
		return store.MountConfig{}, &ParseError{Input: s, Reason: "does not match kind[:rest]"}
	}

	parts := strings.SplitN(s, ":", 2)
	kind := parts[0]
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}

	switch kind {
	case "memory":
		return store.MountConfig{Kind: store.KindMemory}, nil
	case "help":
		return store.MountConfig{Kind: store.KindHelp}, nil
	case "sys":
		return store.MountConfig{Kind: store.KindSys}, nil
	case "local":
		if rest == "" {
			return store.MountConfig{}, &ParseError{Input: s, Reason: "local requires a path"}
		}
		return store.MountConfig{Kind: store.KindLocal, Path: rest}, nil
	case "http":
		if rest == "" {
			return store.MountConfig{}, &ParseError{Input: s, Reason: "http requires a URL"}
		}
		return store.MountConfig{Kind: store.KindHTTP, URL: rest}, nil
	case "structfs":
		if rest == "" {
			return store.MountConfig{}, &ParseError{Input: s, Reason: "structfs requires a URL"}
		}
		return store.MountConfig{Kind: store.KindStructfs, URL: rest}, nil
	case "http_broker":
		return parseBroker(store.KindHTTPBroker, rest)
	case "async_http_broker":
		return parseBroker(store.KindAsyncHTTPBroker, rest)
	case "s3":
		bucket, prefix := splitOnce(rest, '/')
		if bucket == "" {
			return store.MountConfig{}, &ParseError{Input: s, Reason: "s3 requires a bucket"}
		}
		return store.MountConfig{Kind: store.KindS3, Bucket: bucket, Prefix: prefix}, nil
	case "ceph":
		bucket, prefix := splitOnce(rest, '/')
		if bucket == "" {
			return store.MountConfig{}, &ParseError{Input: s, Reason: "ceph requires a pool/bucket"}
		}
		return store.MountConfig{Kind: store.KindCeph, Bucket: bucket, Prefix: prefix}, nil
	case "sql":
		driver, dsnAndTable := splitOnce(rest, ':')
		if driver == "" {
			return store.MountConfig{}, &ParseError{Input: s, Reason: "sql requires driver:dsn#table"}
		}
		dsn, table := splitOnce(dsnAndTable, '#')
		return store.MountConfig{Kind: store.KindSQL, Driver: driver, DSN: dsn, Table: table}, nil
	default:
		return store.MountConfig{}, &ParseError{Input: s, Reason: fmt.Sprintf("unknown mount kind %q", kind)}
	}
}

func parseBroker(kind store.MountConfigKind, rest string) (store.MountConfig, error) {
	cfg := store.MountConfig{Kind: kind, DefaultTimeoutMs: 30000}
	if rest == "" {
		return cfg, nil
	}
	ms, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return store.MountConfig{}, &ParseError{Input: rest, Reason: "timeout must be an integer number of milliseconds"}
	}
	cfg.DefaultTimeoutMs = ms
	return cfg, nil
}

func splitOnce(s string, sep byte) (string, string) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}
