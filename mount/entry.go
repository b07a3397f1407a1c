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

package mount

import (
	"github.com/google/uuid"

	"github.com/launix-de/structfs/overlay"
	"github.com/launix-de/structfs/store"
)

// entry is the NonLockingReadMap element for one mounted prefix: the
// descriptor a caller supplied plus the layer it produced. Implements
// NonLockingReadMap.KeyGetter[string].
type entry struct {
	Prefix string
	Config store.MountConfig
	ID     uuid.UUID
	Layer  *overlay.Layer
}

// GetKey and ComputeSize use value receivers: NonLockingReadMap's type
// parameter T (here entry) must itself satisfy KeyGetter[string], and
// a pointer-receiver method would only be in (*entry)'s method set.
func (e entry) GetKey() string { return e.Prefix }

// ComputeSize is a rough byte estimate, matching the cost-accounting
// convention NonLockingReadMap's own elements follow.
func (e entry) ComputeSize() uint {
	return uint(64 + len(e.Prefix) + len(e.Config.Path) + len(e.Config.DSN) + len(e.Config.URL))
}
