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

// Package overlay implements the prefix-trie dispatch router: longest
// mount-prefix match, per-layer redirects, cycle detection and an
// opt-in fallthrough policy (spec.md §4.4). Pure with respect to the
// store layer: it takes already-constructed stores and never knows
// about factories or mount configuration.
package overlay

import "fmt"

// RoutingErrorKind enumerates the ways dispatch can fail (spec.md §7).
type RoutingErrorKind int

const (
	RoutingNoRoute RoutingErrorKind = iota
	RoutingCycle
	RoutingDepthExceeded
	RoutingDuplicatePrefix
	RoutingBusy
)

type RoutingError struct {
	Kind  RoutingErrorKind
	Path  string
	Layer string
}

func (e *RoutingError) Error() string {
	switch e.Kind {
	case RoutingNoRoute:
		return fmt.Sprintf("overlay: no route for %q", e.Path)
	case RoutingCycle:
		return fmt.Sprintf("overlay: cycle detected routing %q through layer %q", e.Path, e.Layer)
	case RoutingDepthExceeded:
		return fmt.Sprintf("overlay: depth cap exceeded routing %q", e.Path)
	case RoutingDuplicatePrefix:
		return fmt.Sprintf("overlay: a layer is already mounted at prefix %q", e.Layer)
	case RoutingBusy:
		return fmt.Sprintf("overlay: layer %q is not ready", e.Layer)
	default:
		return fmt.Sprintf("overlay: routing error for %q", e.Path)
	}
}
