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

// Package mount implements the mount registry: a copy-on-write layer
// table (via github.com/launix-de/NonLockingReadMap) on top of
// overlay.Router, the Factory plug-in point, and the `_mounts/`
// control-plane path (spec.md §4.5, §6).
package mount

import "fmt"

// MountErrorKind enumerates the ways a control-plane operation can
// fail (spec.md §7).
type MountErrorKind int

const (
	MountAlreadyMounted MountErrorKind = iota
	MountUnknown
	MountFactoryFailed
	MountBusy
)

type MountError struct {
	Kind   MountErrorKind
	Prefix string
	Reason string
}

func (e *MountError) Error() string {
	switch e.Kind {
	case MountAlreadyMounted:
		return fmt.Sprintf("mount: %q is already mounted", e.Prefix)
	case MountUnknown:
		return fmt.Sprintf("mount: no mount registered at %q", e.Prefix)
	case MountFactoryFailed:
		return fmt.Sprintf("mount: factory failed for %q: %s", e.Prefix, e.Reason)
	case MountBusy:
		return fmt.Sprintf("mount: %q is busy", e.Prefix)
	default:
		return fmt.Sprintf("mount: error at %q", e.Prefix)
	}
}
