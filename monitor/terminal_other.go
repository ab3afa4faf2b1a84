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

//go:build !unix

package monitor

import (
	"fmt"
	"os"
)

// Terminal is not supported on this platform. Initialise() always fails and
// the monitor falls back to reading lines
type Terminal struct {
	input *os.File
}

// Initialise always returns an error
func (term *Terminal) Initialise(input, output *os.File) error {
	return fmt.Errorf("monitor: cbreak mode not supported on this platform")
}

// CleanUp does nothing
func (term *Terminal) CleanUp() {}

// Geometry always returns zero
func (term *Terminal) Geometry() (int, int) {
	return 0, 0
}

// CanonicalMode does nothing
func (term *Terminal) CanonicalMode() {}

// CBreakMode does nothing
func (term *Terminal) CBreakMode() {}

// Input returns the file used for input
func (term *Terminal) Input() *os.File {
	return term.input
}
