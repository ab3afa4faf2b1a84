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

package fdc

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/gcr"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
)

// Clock is the part of the scheduler used by the controller
type Clock interface {
	SchedulePeriodic(period scheduler.Time, cb scheduler.Callback) scheduler.Handle
	SetPeriod(h scheduler.Handle, period scheduler.Time) bool
	Cancel(h scheduler.Handle) bool
}

// Signals is implemented by whatever is connected to the byte ready and
// error outputs of the controller. The functions are only called when the
// signal changes
type Signals interface {
	ByteReady(ready bool)
	Error(err bool)
}

// BitObserver is implemented by types that want to see every bit passing
// under the head of the selected unit
type BitObserver interface {
	ObserveBit(unit int, bit uint8)
}

// Register offsets
const (
	RegData   = 0x00
	RegDrive  = 0x01
	RegMode   = 0x02
	RegStatus = 0x03
)

// bits of the drive register
const (
	mtr1     = 0x10
	mtr0     = 0x20
	notSync  = 0x80
	phaseMsk = 0x03
)

// bits of the mode register
const (
	modeSel = 0x01
	rwSel   = 0x02
)

// bits of the status register
const (
	notByteReady = 0x01
	notError     = 0x02
	writeProtect = 0x04
)

// the number of bits in a GCR encoded byte
const frameBits = 10

// Controller is the floppy disk controller
type Controller struct {
	tag string

	clk    Clock
	handle scheduler.Handle

	units []*floppy.Unit

	signals   Signals
	observers []BitObserver

	Drive   int
	Side    int
	Density uint8

	BitCount int
	Shift    uint16
	Address  uint16
	Data     uint8
	Sync     bool

	// the value of Data at the most recent byte boundary
	Latch uint8

	ByteReady bool
	Error     bool

	// mode select is true for GCR and false for sync. read/write select is
	// true for read
	ModeSel bool
	RWSel   bool

	// the parallel data to be written
	PI uint8

	// the ten bit shift register used when writing
	WriteShift uint16

	// the last value written to the drive register
	DriveLatch uint8
}

// NewController is the preferred method of initialisation for the Controller
// type. The bit clock starts immediately
func NewController(tag string, clk Clock, units ...*floppy.Unit) *Controller {
	c := &Controller{
		tag:   tag,
		clk:   clk,
		units: units,
	}
	c.Reset()
	if clk != nil {
		c.handle = clk.SchedulePeriodic(scheduler.Time(clocks.BitPeriod(c.Density)), c.tick)
	}
	return c
}

// Tag returns the name of the controller
func (c *Controller) Tag() string {
	return c.tag
}

func (c *Controller) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: drive=%d side=%d density=%d ", c.tag, c.Drive, c.Side, c.Density))
	s.WriteString(fmt.Sprintf("shift=%04x count=%d latch=%02x", c.Shift, c.BitCount, c.Latch))
	if c.ByteReady {
		s.WriteString(" BRDY")
	}
	if c.Error {
		s.WriteString(" ERR")
	}
	if c.Sync {
		s.WriteString(" SYNC")
	}
	if !c.RWSel {
		s.WriteString(" WRITE")
	}
	return s.String()
}

// Plumb connects the outputs of the controller. The argument can be nil
func (c *Controller) Plumb(signals Signals) {
	c.signals = signals
}

// AddObserver adds a BitObserver to the controller
func (c *Controller) AddObserver(o BitObserver) {
	c.observers = append(c.observers, o)
}

// Units returns the drive units owned by the controller
func (c *Controller) Units() []*floppy.Unit {
	return c.units
}

// Snapshot returns a copy of the controller and its units. The copy is not
// connected to the clock or to any outputs
func (c *Controller) Snapshot() *Controller {
	n := *c
	n.clk = nil
	n.signals = nil
	n.observers = nil
	n.units = make([]*floppy.Unit, len(c.units))
	for i, u := range c.units {
		n.units[i] = u.Snapshot()
	}
	return &n
}

// Reset the controller to its power-on state. The outputs are told about
// any change
func (c *Controller) Reset() {
	c.BitCount = 0
	c.Shift = 0
	c.Address = 0
	c.Data = 0
	c.Sync = false
	c.Latch = 0
	c.PI = 0
	c.ModeSel = true
	c.RWSel = true
	c.WriteShift = 0
	c.DriveLatch = mtr0 | mtr1
	c.Drive = 0
	c.setByteReady(false)
	c.setError(false)
	c.SelectSide(0)
	c.SetDensity(0)
	for _, u := range c.units {
		if u.Spindle {
			u.SetSpindle(false)
		}
	}
}

func (c *Controller) setByteReady(v bool) {
	if v == c.ByteReady {
		return
	}
	c.ByteReady = v
	if c.signals != nil {
		c.signals.ByteReady(v)
	}
}

func (c *Controller) setError(v bool) {
	if v == c.Error {
		return
	}
	c.Error = v
	if c.signals != nil {
		c.signals.Error(v)
	}
}

// ClearByteReady rearms the byte ready signal
func (c *Controller) ClearByteReady() {
	c.setByteReady(false)
}

// selected returns the selected unit or nil if the selected drive does not
// exist
func (c *Controller) selected() *floppy.Unit {
	if c.Drive < 0 || c.Drive >= len(c.units) {
		return nil
	}
	return c.units[c.Drive]
}

// SelectDrive selects the drive unit used by the bit clock
func (c *Controller) SelectDrive(drive int) {
	c.Drive = drive
}

// SelectSide selects the side of the disk for every unit
func (c *Controller) SelectSide(side int) {
	c.Side = side
	for _, u := range c.units {
		u.SetSide(side)
	}
}

// SetDensity changes the rate of the bit clock. The new rate takes effect
// immediately. The bit counter and shift register are not affected
func (c *Controller) SetDensity(density uint8) {
	density &= 0x03
	if density == c.Density {
		return
	}
	c.Density = density
	if c.clk != nil {
		c.clk.SetPeriod(c.handle, scheduler.Time(clocks.BitPeriod(c.Density)))
	}
}

// SetPI sets the parallel data to be written
func (c *Controller) SetPI(data uint8) {
	c.PI = data
}

// SetMode sets the mode select and read/write select lines. Selecting write
// loads the write register immediately
func (c *Controller) SetMode(mode bool, read bool) {
	c.ModeSel = mode
	if c.RWSel && !read {
		c.BitCount = 0
		c.loadWriteRegister()
	}
	c.RWSel = read
}

// SetSpindle turns the spindle motor of a unit on or off. Turning the motor
// off reloads the track and resets the bit counter
func (c *Controller) SetSpindle(unit int, on bool) {
	if unit < 0 || unit >= len(c.units) {
		return
	}
	u := c.units[unit]
	if u.Spindle == on {
		return
	}
	u.SetSpindle(on)
	if !on && unit == c.Drive {
		c.BitCount = 0
	}
}

// Step sets the stepper phase of a unit
func (c *Controller) Step(unit int, phase int) {
	if unit < 0 || unit >= len(c.units) {
		return
	}
	u := c.units[unit]
	if u.Step(u.Spindle, phase) != 0 && unit == c.Drive {
		c.BitCount = 0
	}
}

// WriteProtected returns the state of the write protect sensor of the
// selected unit
func (c *Controller) WriteProtected() bool {
	u := c.selected()
	if u == nil {
		return true
	}
	return u.WriteProtected()
}

func (c *Controller) loadWriteRegister() {
	if !c.ModeSel {
		c.WriteShift = gcr.SyncMark
		return
	}
	addr := gcr.WriteAddress(c.PI, true)
	c.WriteShift = gcr.Encode(gcr.Lookup(addr), addr)
}

// tick is the bit clock callback
func (c *Controller) tick(_ scheduler.Time) {
	u := c.selected()
	if u == nil || !u.Spindle {
		return
	}

	var bit uint8
	if c.RWSel {
		bit = u.NextBit()
	} else {
		bit = uint8(c.WriteShift>>(frameBits-1)) & 0x01
		c.WriteShift = (c.WriteShift << 1) & gcr.SyncMark
		if u.WriteProtected() {
			u.NextBit()
		} else {
			u.WriteBit(bit)
		}
	}

	for _, o := range c.observers {
		o.ObserveBit(c.Drive, bit)
	}

	c.Shift = c.Shift<<1 | uint16(bit)

	if c.RWSel {
		c.Address = gcr.ReadAddress(c.Shift)
	} else {
		c.Address = gcr.WriteAddress(c.PI, c.ModeSel)
	}
	c.Data = gcr.Lookup(c.Address)

	// sync marks are only recognised when reading
	c.Sync = c.RWSel && c.Shift&gcr.SyncMark == gcr.SyncMark
	if c.Sync {
		c.BitCount = 0
		return
	}

	c.BitCount++
	if c.BitCount < frameBits {
		return
	}
	c.BitCount = 0

	c.Latch = c.Data
	c.setError(!gcr.Valid(c.Address))
	c.setByteReady(true)

	if !c.RWSel {
		c.loadWriteRegister()
	}
}

// writeDrive handles a write to the drive register
func (c *Controller) writeDrive(data uint8) {
	c.DriveLatch = data
	motor := [2]bool{data&mtr0 == 0, data&mtr1 == 0}
	for i := range c.units {
		if i > 1 {
			break
		}
		c.SetSpindle(i, motor[i])
		c.Step(i, int(data>>(2*i))&phaseMsk)
	}
}

func (c *Controller) status() uint8 {
	var v uint8
	if !c.ByteReady {
		v |= notByteReady
	}
	if !c.Error {
		v |= notError
	}
	if c.WriteProtected() {
		v |= writeProtect
	}
	return v
}

func (c *Controller) drive() uint8 {
	v := c.DriveLatch &^ notSync
	if !c.Sync {
		v |= notSync
	}
	return v
}

func (c *Controller) mode() uint8 {
	var v uint8
	if c.ModeSel {
		v |= modeSel
	}
	if c.RWSel {
		v |= rwSel
	}
	return v
}

// ReadRegister implements the bus.RegisterPort interface
func (c *Controller) ReadRegister(offset uint8) uint8 {
	switch offset {
	case RegData:
		c.setByteReady(false)
		return c.Latch
	case RegDrive:
		return c.drive()
	case RegMode:
		return c.mode()
	case RegStatus:
		return c.status()
	}
	logger.Logf(logger.Allow, c.tag, "unmapped read (%02x)", offset)
	return 0
}

// WriteRegister implements the bus.RegisterPort interface
func (c *Controller) WriteRegister(offset uint8, data uint8) {
	switch offset {
	case RegData:
		c.SetPI(data)
	case RegDrive:
		c.writeDrive(data)
	case RegMode:
		c.SetMode(data&modeSel == modeSel, data&rwSel == rwSel)
	case RegStatus:
		c.setByteReady(false)
	default:
		logger.Logf(logger.Allow, c.tag, "unmapped write (%02x)", offset)
	}
}

// PeekRegister implements the bus.DebuggerBus interface
func (c *Controller) PeekRegister(offset uint8) uint8 {
	switch offset {
	case RegData:
		return c.Latch
	case RegDrive:
		return c.drive()
	case RegMode:
		return c.mode()
	case RegStatus:
		return c.status()
	}
	return 0
}
