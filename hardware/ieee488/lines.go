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

package ieee488

import "strings"

// Line identifies one of the bus control lines
type Line int

// List of valid Line values
const (
	EOI Line = iota
	DAV
	NRFD
	NDAC
	IFC
	SRQ
	ATN
	REN

	NumLines
)

var lineNames = [NumLines]string{"EOI", "DAV", "NRFD", "NDAC", "IFC", "SRQ", "ATN", "REN"}

func (l Line) String() string {
	if l < 0 || l >= NumLines {
		return "unknown line"
	}
	return lineNames[l]
}

// LineFromString returns the Line with the name. Comparison is case
// insensitive. The second return value is false if the name is not recognised
func LineFromString(s string) (Line, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range lineNames {
		if n == s {
			return Line(i), true
		}
	}
	return 0, false
}

// Lines is the state of every control line. True is released
type Lines [NumLines]bool

// released is the state of the lines for a device that is driving nothing
var released = Lines{true, true, true, true, true, true, true, true}

func (l Lines) String() string {
	s := strings.Builder{}
	for i, v := range l {
		if i > 0 {
			s.WriteRune(' ')
		}
		s.WriteString(lineNames[i])
		if v {
			s.WriteString("=1")
		} else {
			s.WriteString("=0")
		}
	}
	return s.String()
}
