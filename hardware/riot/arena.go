// This file is part of Gopher2040.
//
// Gopher2040 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2040 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2040.  If not, see <https://www.gnu.org/licenses/>.

package riot

import (
	"github.com/jetsetilly/gopher2040/curated"
)

// UnknownHandle is returned when an Arena is asked for a chip it does not hold
const UnknownHandle = "riot: unknown handle (%d)"

// Handle identifies a chip in an Arena. The zero value is never valid
type Handle int

// Arena holds every chip created for a machine
type Arena struct {
	chips []*RIOT
}

// Add a chip to the arena
func (a *Arena) Add(riot *RIOT) Handle {
	a.chips = append(a.chips, riot)
	return Handle(len(a.chips))
}

// Get the chip for the handle
func (a *Arena) Get(h Handle) (*RIOT, error) {
	if h < 1 || int(h) > len(a.chips) {
		return nil, curated.Errorf(UnknownHandle, h)
	}
	return a.chips[h-1], nil
}

// Len returns the number of chips in the arena
func (a *Arena) Len() int {
	return len(a.chips)
}

// Reset every chip in the arena
func (a *Arena) Reset() {
	for _, c := range a.chips {
		c.Reset()
	}
}

// Snapshot returns a copy of every chip in the arena, in the order they
// were added
func (a *Arena) Snapshot() []*RIOT {
	s := make([]*RIOT, 0, len(a.chips))
	for _, c := range a.chips {
		s = append(s, c.Snapshot())
	}
	return s
}
