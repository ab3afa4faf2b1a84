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
	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/riot/ports"
)

// each chip has its own wiring type so that the drive can implement the
// ports.Source and ports.Sink interfaces once per chip

type uc1 struct{ d *Drive }

func (w uc1) ReadPort(id ports.ID) uint8 {
	if id == ports.A {
		return w.d.bus.Data()
	}
	return 0xff
}

func (w uc1) WritePort(id ports.ID, data uint8) {
	if id == ports.B {
		w.d.publish(w.d.bus.SetData(w.d, data))
	}
}

type ue1 struct{ d *Drive }

func (w ue1) ReadPort(id ports.ID) uint8 {
	if id == ports.A {
		return w.d.ue1PA()
	}
	return w.d.ue1PB()
}

func (w ue1) WritePort(id ports.ID, data uint8) {
	if id == ports.B {
		w.d.LEDs = data & (LEDActivity0 | LEDActivity1 | LEDError)
		return
	}

	// pins that are not outputs are pulled up
	data |= ^w.d.UE1.Ports.ReadDDR(ports.A)

	atna := data&0x01 == 0x01
	daco := data&0x02 == 0x02
	rfdo := data&0x04 == 0x04
	w.d.publish(w.d.handshake.Set(atna, rfdo, daco))
	w.d.publish(w.d.bus.SetLine(w.d, ieee488.EOI, data&0x08 == 0x08))
	w.d.publish(w.d.bus.SetLine(w.d, ieee488.DAV, data&0x10 == 0x10))
}

type uk3 struct{ d *Drive }

func (w uk3) ReadPort(id ports.ID) uint8 {
	if id == ports.A {
		return w.d.FDC.PI
	}
	return w.d.uk3PB()
}

func (w uk3) WritePort(id ports.ID, data uint8) {
	if id == ports.A {
		w.d.FDC.SetPI(data)
		return
	}

	w.d.FDC.SelectDrive(int(data & 0x01))
	w.d.FDC.SetDensity((data >> 1) & 0x03)
	if data&0x10 == 0x10 {
		w.d.FDC.SelectSide(0)
	} else {
		w.d.FDC.SelectSide(1)
	}
}

type dosIRQ struct{ d *Drive }

func (w dosIRQ) IRQ(_ bool) {
	w.d.updateDOSIRQ()
}

type fdcIRQ struct{ d *Drive }

func (w fdcIRQ) IRQ(asserted bool) {
	if asserted == w.d.fdcIRQ {
		return
	}
	w.d.fdcIRQ = asserted
	if w.d.fdcProc != nil {
		w.d.fdcProc.IRQ(asserted)
	}
}

// signals connects the outputs of the floppy disk controller to the FDC
// processor
type signals struct{ d *Drive }

func (w signals) ByteReady(ready bool) {
	w.d.overflow = ready
	if w.d.fdcProc != nil {
		w.d.fdcProc.Overflow(ready)
	}
}

func (w signals) Error(err bool) {
	w.d.fdcError = err
}
