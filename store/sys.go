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
	"os"
	"runtime"
	"time"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/value"
)

// Sys exposes process-level facts the way a Plan-9 /sys hierarchy
// would: pid, uptime, goroutine count. Read-only, stateful only in
// that "uptime" changes between reads, so it deliberately does not
// embed PureReader.
type Sys struct {
	startedAt time.Time
}

// NewSys returns a Sys store whose uptime is measured from the call to
// NewSys, not from process start, so tests can construct an
// independent clock.
func NewSys() *Sys {
	return &Sys{startedAt: time.Now()}
}

func (s *Sys) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	seg, _ := p.LastSegment()

	switch {
	case p.IsRoot():
		m := value.NewOrderedMap()
		m.Set("pid", value.NewInt(int64(os.Getpid())))
		m.Set("uptime_seconds", value.NewFloat(time.Since(s.startedAt).Seconds()))
		m.Set("goroutines", value.NewInt(int64(runtime.NumGoroutine())))
		m.Set("go_version", value.NewString(runtime.Version()))
		rec := value.NewParsed(value.NewMap(m))
		return &rec, nil
	case seg == "pid":
		rec := value.NewParsed(value.NewInt(int64(os.Getpid())))
		return &rec, nil
	case seg == "uptime_seconds":
		rec := value.NewParsed(value.NewFloat(time.Since(s.startedAt).Seconds()))
		return &rec, nil
	case seg == "goroutines":
		rec := value.NewParsed(value.NewInt(int64(runtime.NumGoroutine())))
		return &rec, nil
	}
	return nil, nil
}

func (s *Sys) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	return p, &WriteError{Kind: WriteUnsupported, Path: p.String(), Reason: "sys is a read-only store"}
}
