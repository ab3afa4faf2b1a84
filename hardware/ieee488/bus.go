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

import (
	"fmt"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/logger"
)

// MaxDevices is the maximum number of devices that can be attached to the
// bus. This is the limit imposed by the IEEE-488 standard
const MaxDevices = 15

// MaxReentry is the maximum depth of nested notifications. A change that is
// made deeper than this is applied to the bus but is not announced
const MaxReentry = 8

// Sentinal error patterns
const (
	TooManyDevices  = "ieee488: too many devices on bus (max %d)"
	DuplicateDevice = "ieee488: device already attached (%s)"
	BusStarted      = "ieee488: cannot attach device after bus has started (%s)"
	NoTag           = "ieee488: device has no tag"
	UnknownDevice   = "ieee488: device is not attached (%s)"
)

// Device is implemented by anything that can be attached to the bus
type Device interface {
	// Tag returns the unique name of the device
	Tag() string

	// LineChanged is called whenever the combined value of a line changes
	LineChanged(line Line, value bool)
}

// DataListener is implemented by devices that want to be told when the
// combined data byte changes
type DataListener interface {
	DataChanged(data uint8)
}

// Resetter is implemented by devices that respond to a bus reset
type Resetter interface {
	Reset()
}

// participant is an attached device and the values it is driving onto the bus
type participant struct {
	dev   Device
	lines Lines
	data  uint8
}

// Bus is the IEEE-488 bus. There is no register holding the bus value, the
// combined values are always derived from what the participants are driving
type Bus struct {
	participants []*participant
	tags         map[string]*participant

	started bool

	// the most recently announced combined values
	lines Lines
	data  uint8

	// generation counters are incremented whenever a combined value changes.
	// a fan-out that finds the counter has moved on has been superseded by a
	// nested change and stops
	lineGen [NumLines]uint64
	dataGen uint64

	// depth of nested notifications
	depth int
}

// NewBus is the preferred method of initialisation for the Bus type
func NewBus() *Bus {
	return &Bus{
		tags:  make(map[string]*participant),
		lines: released,
		data:  0xff,
	}
}

func (b *Bus) String() string {
	return fmt.Sprintf("%s DATA=%02x", b.lines, b.data)
}

// Attach a device to the bus. Devices can only be attached before the bus is
// started
func (b *Bus) Attach(dev Device) error {
	tag := dev.Tag()
	if tag == "" {
		return curated.Errorf(NoTag)
	}
	if b.started {
		return curated.Errorf(BusStarted, tag)
	}
	if _, ok := b.tags[tag]; ok {
		return curated.Errorf(DuplicateDevice, tag)
	}
	if len(b.participants) >= MaxDevices {
		return curated.Errorf(TooManyDevices, MaxDevices)
	}

	p := &participant{
		dev:   dev,
		lines: released,
		data:  0xff,
	}
	b.participants = append(b.participants, p)
	b.tags[tag] = p

	return nil
}

// Start the bus. No more devices can be attached after this
func (b *Bus) Start() {
	b.started = true
}

// Started returns true if Start() has been called
func (b *Bus) Started() bool {
	return b.started
}

// Devices returns the tags of the attached devices in attachment order
func (b *Bus) Devices() []string {
	t := make([]string, 0, len(b.participants))
	for _, p := range b.participants {
		t = append(t, p.dev.Tag())
	}
	return t
}

func (b *Bus) participant(dev Device) (*participant, error) {
	p, ok := b.tags[dev.Tag()]
	if !ok || p.dev != dev {
		return nil, curated.Errorf(UnknownDevice, dev.Tag())
	}
	return p, nil
}

// Line returns the combined value of a line. True is released
func (b *Bus) Line(line Line) bool {
	return b.lines[line]
}

// Lines returns the combined value of every line
func (b *Bus) Lines() Lines {
	return b.lines
}

// Data returns the combined value of the data byte
func (b *Bus) Data() uint8 {
	return b.data
}

// SetLine changes the value the device is driving onto the line. If the
// combined value of the line changes then every device is notified
func (b *Bus) SetLine(dev Device, line Line, value bool) error {
	if line < 0 || line >= NumLines {
		return curated.Errorf("ieee488: %v", fmt.Errorf("invalid line (%d)", line))
	}

	p, err := b.participant(dev)
	if err != nil {
		return err
	}

	p.lines[line] = value

	v := true
	for _, q := range b.participants {
		v = v && q.lines[line]
	}

	if v == b.lines[line] {
		return nil
	}

	b.lines[line] = v
	b.lineGen[line]++
	gen := b.lineGen[line]

	if b.depth >= MaxReentry {
		logger.Logf(logger.Allow, "ieee488", "notification depth exceeded for %s (from %s)", line, dev.Tag())
		return nil
	}

	b.depth++
	defer func() {
		b.depth--
	}()

	for _, p := range b.participants {
		if b.lineGen[line] != gen {
			break // for loop
		}
		p.dev.LineChanged(line, v)
	}

	return nil
}

// SetData changes the data byte the device is driving onto the bus. If the
// combined value changes then every device that implements DataListener is
// notified
func (b *Bus) SetData(dev Device, data uint8) error {
	p, err := b.participant(dev)
	if err != nil {
		return err
	}

	p.data = data

	v := uint8(0xff)
	for _, q := range b.participants {
		v &= q.data
	}

	if v == b.data {
		return nil
	}

	b.data = v
	b.dataGen++
	gen := b.dataGen

	if b.depth >= MaxReentry {
		logger.Logf(logger.Allow, "ieee488", "notification depth exceeded for DATA (from %s)", dev.Tag())
		return nil
	}

	b.depth++
	defer func() {
		b.depth--
	}()

	for _, p := range b.participants {
		if b.dataGen != gen {
			break // for loop
		}
		if l, ok := p.dev.(DataListener); ok {
			l.DataChanged(v)
		}
	}

	return nil
}

// Driving returns the lines and data that the device with the tag is
// driving onto the bus. The last return value is false if there is no device
// with that tag
func (b *Bus) Driving(tag string) (Lines, uint8, bool) {
	p, ok := b.tags[tag]
	if !ok {
		return Lines{}, 0, false
	}
	return p.lines, p.data, true
}

// Reset every device that implements the Resetter interface, in attachment
// order. This is the effect of a pulse on the IFC line
func (b *Bus) Reset() {
	for _, p := range b.participants {
		if r, ok := p.dev.(Resetter); ok {
			r.Reset()
		}
	}
}

// DeviceState is the state of a single participant. Part of the State type
type DeviceState struct {
	Tag   string
	Lines Lines
	Data  uint8
}

// State is a copy of the bus. It contains no pointers
type State struct {
	Devices []DeviceState
	Lines   Lines
	Data    uint8
}

// Snapshot returns a copy of the bus state
func (b *Bus) Snapshot() State {
	s := State{
		Devices: make([]DeviceState, 0, len(b.participants)),
		Lines:   b.lines,
		Data:    b.data,
	}
	for _, p := range b.participants {
		s.Devices = append(s.Devices, DeviceState{
			Tag:   p.dev.Tag(),
			Lines: p.lines,
			Data:  p.data,
		})
	}
	return s
}
