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

package host

// Trace records the state of a bus line as seen by the host, whether it is
// released (high) or asserted (low), and also the immediately previous state.
//
// Moving from one state to the other is done with Tick(bool) where a boolean
// value of true indicates a released line.
//
// The function Falling() returns true if the line has just been asserted and
// Rising() returns true if it has just been released.
type Trace struct {
	Label string

	// new values are added to the end of the array
	Activity []bool

	from bool
	to   bool
}

// the number of entries in the activity history
const activityLength = 64

// NewTrace is the preferred method of initialisation for the Trace type. The
// line starts in the released state
func NewTrace(label string) Trace {
	tr := Trace{
		Label:    label,
		Activity: make([]bool, activityLength),
		from:     true,
		to:       true,
	}
	for i := range tr.Activity {
		tr.Activity[i] = true
	}
	return tr
}

// Snapshot returns a copy of the trace
func (tr *Trace) Snapshot() *Trace {
	cp := *tr
	cp.Activity = make([]bool, len(tr.Activity))
	copy(cp.Activity, tr.Activity)
	return &cp
}

func (tr *Trace) Changed() bool {
	return tr.from != tr.to
}

func (tr *Trace) Falling() bool {
	return tr.from && !tr.to
}

func (tr *Trace) Rising() bool {
	return !tr.from && tr.to
}

// Hi returns true if the line is released
func (tr *Trace) Hi() bool {
	return tr.to
}

// Lo returns true if the line is asserted
func (tr *Trace) Lo() bool {
	return !tr.to
}

// Tick records a new value for the line
func (tr *Trace) Tick(v bool) {
	tr.from = tr.to
	tr.to = v
	tr.Activity = append(tr.Activity[1:], v)
}

// String returns the activity history as a string of '-' (released) and '_'
// (asserted) characters, oldest first
func (tr *Trace) String() string {
	b := make([]byte, len(tr.Activity))
	for i, v := range tr.Activity {
		if v {
			b[i] = '-'
		} else {
			b[i] = '_'
		}
	}
	return string(b)
}
