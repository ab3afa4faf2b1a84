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

package drive

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/fdc"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/memory/bus"
	"github.com/jetsetilly/gopher2040/hardware/peripherals"
	"github.com/jetsetilly/gopher2040/hardware/riot"
	"github.com/jetsetilly/gopher2040/hardware/riot/ports"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
)

// Error patterns
const (
	InvalidAddress = "drive: invalid address (%d)"
	NotADrive      = "drive: model is not a drive (%s)"
	UnknownChip    = "drive: unknown chip (%s)"
)

// Range of valid addresses on the bus
const (
	MinAddress = 8
	MaxAddress = 15
)

// Clock is the part of the scheduler used by the drive
type Clock interface {
	Now() scheduler.Time
	Allocate(cb scheduler.Callback) scheduler.Handle
	Reschedule(h scheduler.Handle, delay scheduler.Time) bool
	Cancel(h scheduler.Handle) bool
	SchedulePeriodic(period scheduler.Time, cb scheduler.Callback) scheduler.Handle
	SetPeriod(h scheduler.Handle, period scheduler.Time) bool
}

// LEDs on the front panel
const (
	LEDActivity1 = 0x08
	LEDActivity0 = 0x10
	LEDError     = 0x20
)

// Drive is a disk drive on the bus
type Drive struct {
	tag     string
	model   peripherals.Model
	address int

	bus       *ieee488.Bus
	handshake *ieee488.Handshaker

	UC1 *riot.RIOT
	UE1 *riot.RIOT
	UK3 *riot.RIOT
	FDC *fdc.Controller

	// handles of the chips in the arena
	Handles [3]riot.Handle

	media *floppy.MemoryMedia

	dos      peripherals.Processor
	fdcProc  peripherals.Processor
	dosIRQ   bool
	fdcIRQ   bool
	overflow bool
	fdcError bool

	LEDs uint8
}

// NewDrive is the preferred method of initialisation for the Drive type. The
// chips of the drive are added to the arena and the drive is attached to the
// bus
func NewDrive(tag string, model peripherals.Model, address int, b *ieee488.Bus, clk Clock, arena *riot.Arena) (*Drive, error) {
	if model.Kind != peripherals.KindDrive {
		return nil, curated.Errorf(NotADrive, model.Name)
	}
	if address < MinAddress || address > MaxAddress {
		return nil, curated.Errorf(InvalidAddress, address)
	}

	d := &Drive{
		tag:     tag,
		model:   model,
		address: address,
		bus:     b,
	}

	// no notifications are sent by the bus until a line changes so it is
	// safe to attach before the chips are created
	if err := b.Attach(d); err != nil {
		return nil, curated.Errorf("drive: %v", err)
	}

	d.media = floppy.NewMemoryMedia(model.Units, model.Geometry.Tracks())
	units := make([]*floppy.Unit, model.Units)
	for i := range units {
		units[i] = floppy.NewUnit(i, model.Stepper, d.media)
	}
	d.FDC = fdc.NewController(fmt.Sprintf("%s: fdc", tag), clk, units...)
	d.FDC.Plumb(signals{d})

	d.UC1 = riot.NewRIOT(fmt.Sprintf("%s: UC1", tag), riot.RIOT6532, clk, clocks.ChipDivider)
	d.UE1 = riot.NewRIOT(fmt.Sprintf("%s: UE1", tag), riot.RIOT6532, clk, clocks.ChipDivider)
	d.UK3 = riot.NewRIOT(fmt.Sprintf("%s: UK3", tag), riot.MIOT6530, clk, clocks.ChipDivider)
	d.UC1.Plumb(uc1{d}, uc1{d}, dosIRQ{d})
	d.UE1.Plumb(ue1{d}, ue1{d}, dosIRQ{d})
	d.UK3.Plumb(uk3{d}, uk3{d}, fdcIRQ{d})

	if arena != nil {
		d.Handles[0] = arena.Add(d.UC1)
		d.Handles[1] = arena.Add(d.UE1)
		d.Handles[2] = arena.Add(d.UK3)
	}

	d.handshake = ieee488.NewHandshaker(b, d)
	d.Reset()

	return d, nil
}

// Tag implements the ieee488.Device interface
func (d *Drive) Tag() string {
	return d.tag
}

// Kind implements the peripherals.Peripheral interface
func (d *Drive) Kind() peripherals.Kind {
	return peripherals.KindDrive
}

// Model returns the model of the drive
func (d *Drive) Model() peripherals.Model {
	return d.model
}

// Address returns the bus address of the drive
func (d *Drive) Address() int {
	return d.address
}

// Media returns the media holding the disks of the drive
func (d *Drive) Media() *floppy.MemoryMedia {
	return d.media
}

// Insert a disk into a unit of the drive
func (d *Drive) Insert(unit int, disk *floppy.Disk) error {
	units := d.FDC.Units()
	if unit < 0 || unit >= len(units) {
		return curated.Errorf("drive: %v", curated.Errorf(floppy.NoSuchUnit, unit))
	}

	// modifications to the track buffer belong to the disk being removed
	units[unit].Flush()
	if err := d.media.Insert(unit, disk); err != nil {
		return curated.Errorf("drive: %v", err)
	}
	units[unit].Load()
	return nil
}

func (d *Drive) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s at %d", d.tag, d.model.Name, d.address))
	if d.LEDs&LEDError == LEDError {
		s.WriteString(" ERROR")
	}
	if d.LEDs&(LEDActivity0|LEDActivity1) != 0 {
		s.WriteString(" ACTIVE")
	}
	return s.String()
}

// Plumb connects the processors of the drive. Either argument can be nil
func (d *Drive) Plumb(dos peripherals.Processor, fdcProc peripherals.Processor) {
	d.dos = dos
	d.fdcProc = fdcProc
}

// Chip returns the chip with the name. Valid names are UC1, UE1, UK3 and FDC
func (d *Drive) Chip(name string) (bus.Chip, error) {
	switch strings.ToUpper(name) {
	case "UC1":
		return d.UC1, nil
	case "UE1":
		return d.UE1, nil
	case "UK3":
		return d.UK3, nil
	case "FDC":
		return d.FDC, nil
	}
	return nil, curated.Errorf(UnknownChip, name)
}

// Reset implements the ieee488.Resetter interface. All chips are reset and
// the drive stops driving the bus
func (d *Drive) Reset() {
	d.UC1.Reset()
	d.UE1.Reset()
	d.UK3.Reset()
	d.FDC.Reset()
	d.LEDs = 0

	_ = d.bus.SetData(d, 0xff)
	_ = d.bus.SetLine(d, ieee488.EOI, true)
	_ = d.bus.SetLine(d, ieee488.DAV, true)
	d.publish(d.handshake.Set(false, false, false))

	d.UE1.SetInput(ports.A, d.ue1PA())
	d.UE1.SetInput(ports.B, d.ue1PB())
}

// LineChanged implements the ieee488.Device interface
func (d *Drive) LineChanged(line ieee488.Line, value bool) {
	switch line {
	case ieee488.ATN:
		d.publish(d.handshake.Update())
		d.UE1.SetInput(ports.A, d.ue1PA())
	case ieee488.EOI, ieee488.DAV:
		d.UE1.SetInput(ports.A, d.ue1PA())
	case ieee488.NRFD, ieee488.NDAC:
		d.UE1.SetInput(ports.B, d.ue1PB())
	case ieee488.IFC:
		if !value {
			d.Reset()
		}
	}
}

// DataChanged implements the ieee488.DataListener interface
func (d *Drive) DataChanged(data uint8) {
	d.UC1.SetInput(ports.A, data)
}

// errors from the bus are not expected once the drive is attached
func (d *Drive) publish(err error) {
	if err != nil {
		logger.Log(logger.Allow, d.tag, err)
	}
}

func (d *Drive) ue1PA() uint8 {
	var v uint8
	if d.bus.Line(ieee488.EOI) {
		v |= 0x20
	}
	if d.bus.Line(ieee488.DAV) {
		v |= 0x40
	}
	if !d.bus.Line(ieee488.ATN) {
		v |= 0x80
	}
	return v
}

func (d *Drive) ue1PB() uint8 {
	v := uint8(d.address-MinAddress) & 0x07
	if d.bus.Line(ieee488.NDAC) {
		v |= 0x40
	}
	if d.bus.Line(ieee488.NRFD) {
		v |= 0x80
	}
	return v
}

func (d *Drive) uk3PB() uint8 {
	var v uint8
	if d.FDC.WriteProtected() {
		v |= 0x08
	}
	if d.model.Geometry.Sides == 1 {
		v |= 0x40
	}
	return v
}

// the interrupt line of the DOS processor is shared by UC1 and UE1
func (d *Drive) updateDOSIRQ() {
	v := d.UC1.IRQ() || d.UE1.IRQ()
	if v == d.dosIRQ {
		return
	}
	d.dosIRQ = v
	if d.dos != nil {
		d.dos.IRQ(v)
	}
}

// DOSIRQ returns the state of the interrupt input of the DOS processor
func (d *Drive) DOSIRQ() bool {
	return d.dosIRQ
}

// FDCIRQ returns the state of the interrupt input of the FDC processor
func (d *Drive) FDCIRQ() bool {
	return d.fdcIRQ
}

// Error returns the state of the error output of the controller
func (d *Drive) Error() bool {
	return d.fdcError
}

// Overflow returns the state of the set overflow input of the FDC
// processor. This is the byte ready signal of the controller
func (d *Drive) Overflow() bool {
	return d.overflow
}

// State is a copy of the drive
type State struct {
	Tag      string
	Model    string
	Address  int
	UC1      *riot.RIOT
	UE1      *riot.RIOT
	UK3      *riot.RIOT
	FDC      *fdc.Controller
	LEDs     uint8
	DOSIRQ   bool
	FDCIRQ   bool
	Overflow bool
}

// Snapshot returns a copy of the drive
func (d *Drive) Snapshot() State {
	return State{
		Tag:      d.tag,
		Model:    d.model.Name,
		Address:  d.address,
		UC1:      d.UC1.Snapshot(),
		UE1:      d.UE1.Snapshot(),
		UK3:      d.UK3.Snapshot(),
		FDC:      d.FDC.Snapshot(),
		LEDs:     d.LEDs,
		DOSIRQ:   d.dosIRQ,
		FDCIRQ:   d.fdcIRQ,
		Overflow: d.overflow,
	}
}
