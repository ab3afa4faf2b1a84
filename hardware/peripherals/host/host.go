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

// Package host implements a stub for the computer at the controlling end of
// the IEEE-488 bus. It can drive any line and the data byte, and it records
// every change it is told about. It is used by scripts, the monitor and
// tests.
package host

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/peripherals"
)

// Note is a single notification received from the bus
type Note struct {
	// Line is only valid if IsData is false
	Line  ieee488.Line
	Value bool

	// Data is only valid if IsData is true
	IsData bool
	Data   uint8
}

func (n Note) String() string {
	if n.IsData {
		return fmt.Sprintf("DATA=%02x", n.Data)
	}
	if n.Value {
		return fmt.Sprintf("%s released", n.Line)
	}
	return fmt.Sprintf("%s asserted", n.Line)
}

// the maximum number of notes kept by the host
const maxNotes = 4096

// Host is the stub computer
type Host struct {
	tag string
	bus *ieee488.Bus

	notes  []Note
	Traces [ieee488.NumLines]Trace

	// OnLine is called after every line change is recorded. Can be nil
	OnLine func(line ieee488.Line, value bool)
}

// NewHost is the preferred method of initialisation for the Host type. The
// host is not attached to the bus
func NewHost(tag string, bus *ieee488.Bus) *Host {
	h := &Host{
		tag: tag,
		bus: bus,
	}
	for l := range ieee488.NumLines {
		h.Traces[l] = NewTrace(l.String())
	}
	return h
}

// Tag implements the ieee488.Device interface
func (h *Host) Tag() string {
	return h.tag
}

// Kind implements the peripherals.Peripheral interface
func (h *Host) Kind() peripherals.Kind {
	return peripherals.KindHost
}

func (h *Host) String() string {
	l, d, _ := h.bus.Driving(h.tag)
	return fmt.Sprintf("%s: driving %s DATA=%02x", h.tag, l, d)
}

// LineChanged implements the ieee488.Device interface
func (h *Host) LineChanged(line ieee488.Line, value bool) {
	h.note(Note{Line: line, Value: value})
	h.Traces[line].Tick(value)
	if h.OnLine != nil {
		h.OnLine(line, value)
	}
}

// DataChanged implements the ieee488.DataListener interface
func (h *Host) DataChanged(data uint8) {
	h.note(Note{IsData: true, Data: data})
}

// Reset implements the ieee488.Resetter interface. The host releases every
// line and the data byte
func (h *Host) Reset() {
	for l := range ieee488.NumLines {
		_ = h.bus.SetLine(h, l, true)
	}
	_ = h.bus.SetData(h, 0xff)
}

func (h *Host) note(n Note) {
	if len(h.notes) >= maxNotes {
		h.notes = h.notes[1:]
	}
	h.notes = append(h.notes, n)
}

// Notes returns a copy of the notifications received since the last call to
// ClearNotes()
func (h *Host) Notes() []Note {
	return append([]Note{}, h.notes...)
}

// ClearNotes forgets every notification
func (h *Host) ClearNotes() {
	h.notes = h.notes[:0]
}

// NotesString returns the notifications as a single line
func (h *Host) NotesString() string {
	s := make([]string, 0, len(h.notes))
	for _, n := range h.notes {
		s = append(s, n.String())
	}
	return strings.Join(s, ", ")
}

// Assert pulls the line low
func (h *Host) Assert(line ieee488.Line) error {
	return h.bus.SetLine(h, line, false)
}

// Release lets the line go high
func (h *Host) Release(line ieee488.Line) error {
	return h.bus.SetLine(h, line, true)
}

// SetLine sets the value the host drives onto the line
func (h *Host) SetLine(line ieee488.Line, value bool) error {
	return h.bus.SetLine(h, line, value)
}

// PutData sets the byte the host drives onto the data lines
func (h *Host) PutData(data uint8) error {
	return h.bus.SetData(h, data)
}

// Pulse asserts and then releases the line. Used for IFC
func (h *Host) Pulse(line ieee488.Line) error {
	if err := h.Assert(line); err != nil {
		return err
	}
	return h.Release(line)
}
