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

package floppy

import (
	"fmt"
)

// Stepper identifies the transition table used by the stepper motor. The two
// controller families wire the stepper phases differently
type Stepper int

// List of valid Stepper values
const (
	// phases 0 1 2 3 0 move the head forward
	StepperA Stepper = iota

	// phases 0 1 3 2 0 move the head forward
	StepperB
)

func (st Stepper) String() string {
	switch st {
	case StepperA:
		return "A"
	case StepperB:
		return "B"
	}
	return "unknown"
}

// the position of each phase in the forward sequence
var stepperSequence = [2][4]int{
	{0, 1, 2, 3},
	{0, 1, 3, 2},
}

// Direction returns the number of tracks the head moves when the stepper
// phase changes. Only adjacent phases move the head
func (st Stepper) Direction(from, to int) int {
	seq := stepperSequence[st]
	d := (seq[to&0x03] - seq[from&0x03]) & 0x03
	switch d {
	case 1:
		return 1
	case 3:
		return -1
	}
	return 0
}

// Unit is a single disk drive mechanism
type Unit struct {
	index   int
	stepper Stepper
	media   Media

	Phase   int
	Spindle bool
	Side    int

	// the track under the head. modified by WriteBit()
	Track    []byte
	TrackLen int

	// position of the head within the track. BitPos counts down from 7
	BufferPos int
	BitPos    int

	// the track has been written to since it was loaded
	Dirty bool
}

// NewUnit is the preferred method of initialisation for the Unit type
func NewUnit(index int, stepper Stepper, media Media) *Unit {
	u := &Unit{
		index:   index,
		stepper: stepper,
		media:   media,
	}
	u.Load()
	return u
}

func (u *Unit) String() string {
	return fmt.Sprintf("unit %d: phase=%d spindle=%v side=%d pos=%d.%d/%d",
		u.index, u.Phase, u.Spindle, u.Side, u.BufferPos, u.BitPos, u.TrackLen)
}

// Index returns the unit number of the drive unit
func (u *Unit) Index() int {
	return u.index
}

// Snapshot returns a copy of the unit. The copy has its own track buffer and
// is not connected to the media
func (u *Unit) Snapshot() *Unit {
	n := *u
	n.Track = append([]byte{}, u.Track...)
	n.media = nil
	return &n
}

// Flush writes the track buffer back to the media if it has been modified
// and the media accepts track data
func (u *Unit) Flush() {
	if !u.Dirty {
		return
	}
	u.Dirty = false
	if w, ok := u.media.(TrackWriter); ok {
		w.WriteCurrentTrack(u.index, u.Side, u.Track[:u.TrackLen])
	}
}

// Load the track under the head into the track buffer. The head is positioned
// at the start of the track
func (u *Unit) Load() {
	u.Flush()

	u.Track = u.Track[:0]
	u.TrackLen = 0
	if u.media != nil {
		data, n := u.media.ReadCurrentTrack(u.index, u.Side)
		u.Track = append(u.Track, data[:n]...)
		u.TrackLen = n
	}

	u.BufferPos = 0
	u.BitPos = 7
}

// SetSpindle turns the spindle motor on or off. Turning the motor off
// reloads the track
func (u *Unit) SetSpindle(on bool) {
	u.Spindle = on
	if !on {
		u.Load()
	}
}

// SetSide selects the side of the disk under the head. The track is reloaded
// if the side changes
func (u *Unit) SetSide(side int) {
	if side == u.Side {
		return
	}
	u.Flush()
	u.Side = side
	u.Load()
}

// Step changes the phase of the stepper motor. The head only moves if the
// motor is not running. Returns the number of tracks moved
func (u *Unit) Step(motorRunning bool, phase int) int {
	phase &= 0x03
	defer func() {
		u.Phase = phase
	}()

	if motorRunning || phase == u.Phase {
		return 0
	}

	d := u.stepper.Direction(u.Phase, phase)
	if d == 0 {
		return 0
	}

	u.Flush()
	if u.media != nil {
		u.media.Seek(u.index, d)
	}
	u.Load()

	return d
}

// WriteProtected returns true if the disk in the unit cannot be written to
func (u *Unit) WriteProtected() bool {
	if u.media == nil {
		return true
	}
	return u.media.WriteProtected(u.index)
}

// advance the head by one bit
func (u *Unit) advance() {
	u.BitPos--
	if u.BitPos < 0 {
		u.BitPos = 7
		u.BufferPos++
		if u.BufferPos >= u.TrackLen {
			u.BufferPos = 0
		}
	}
}

// NextBit returns the bit under the head and advances the head. An empty
// track reads as zero bits
func (u *Unit) NextBit() uint8 {
	if u.TrackLen == 0 {
		return 0
	}
	b := (u.Track[u.BufferPos] >> u.BitPos) & 0x01
	u.advance()
	return b
}

// WriteBit replaces the bit under the head and advances the head
func (u *Unit) WriteBit(bit uint8) {
	if u.TrackLen == 0 {
		return
	}
	m := uint8(1) << u.BitPos
	if bit&0x01 == 0x01 {
		u.Track[u.BufferPos] |= m
	} else {
		u.Track[u.BufferPos] &^= m
	}
	u.Dirty = true
	u.advance()
}
