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
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher2040/hardware/riot/ports"
	"github.com/jetsetilly/gopher2040/hardware/riot/timer"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
)

// Variant of the chip
type Variant int

// List of valid Variant values
const (
	RIOT6532 Variant = iota
	MIOT6530
)

func (v Variant) String() string {
	switch v {
	case RIOT6532:
		return "6532"
	case MIOT6530:
		return "6530"
	}
	return "unknown"
}

// IRQSink is implemented by whatever is connected to the interrupt output of
// the chip
type IRQSink interface {
	IRQ(asserted bool)
}

// Flags in the interrupt flag register
const (
	TimerFlag = 0x80
	PA7Flag   = 0x40
)

// the number of address lines decoded by the chip
const addressMask = 0x1f

// RIOT represents the interval timer and the ports of the chip
type RIOT struct {
	tag     string
	variant Variant

	Ports *ports.Ports
	Timer *timer.Timer

	// enabled interrupts. uses the same bits as the flag register
	IRQEnable uint8

	// the PA7 edge detect flag and configuration
	PA7       bool
	PA7Rising bool
	pa7Prev   uint8

	irq      IRQSink
	irqState bool

	// the value last sent to the IRQ sink
	irqOut bool
}

// NewRIOT is the preferred method of initialisation of the RIOT type. The
// divider is the number of logical time units in one cycle of the chip
func NewRIOT(tag string, variant Variant, clk timer.Clock, divider scheduler.Time) *RIOT {
	riot := &RIOT{
		tag:     tag,
		variant: variant,
		Ports:   ports.NewPorts(tag),
	}
	riot.Timer = timer.NewTimer(clk, divider, riot.updateIRQ)
	riot.Reset()
	return riot
}

// Tag returns the name of the chip
func (riot *RIOT) Tag() string {
	return riot.tag
}

// Variant returns the variant of the chip
func (riot *RIOT) Variant() Variant {
	return riot.variant
}

func (riot *RIOT) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s (%s): ", riot.tag, riot.variant))
	s.WriteString(riot.Timer.String())
	s.WriteString(" ")
	s.WriteString(riot.Ports.String())
	s.WriteString(fmt.Sprintf(" IRQ=%v", riot.irqState))
	return s.String()
}

// Plumb connects the chip to the outside world. Any argument can be nil
func (riot *RIOT) Plumb(source ports.Source, sink ports.Sink, irq IRQSink) {
	riot.Ports.Plumb(source, sink)
	riot.irq = irq
}

// Snapshot returns a copy of the chip. The copy is not plumbed and the timer
// in the copy does not advance
func (riot *RIOT) Snapshot() *RIOT {
	n := *riot
	n.Ports = riot.Ports.Snapshot()
	n.Timer = riot.Timer.Snapshot()
	n.irq = nil
	return &n
}

// Reset the chip to its power-on state. The IRQ sink is told about the
// change if the IRQ was asserted
func (riot *RIOT) Reset() {
	riot.Ports.Reset()
	riot.Timer.Reset()
	riot.IRQEnable = 0
	riot.PA7 = false
	riot.PA7Rising = false
	riot.pa7Prev = riot.Ports.Peek(ports.A) & 0x80
	riot.updateIRQ()
}

// IRQ returns the state of the interrupt output
func (riot *RIOT) IRQ() bool {
	return riot.irqState
}

// Flags returns the interrupt flag register
func (riot *RIOT) Flags() uint8 {
	var f uint8
	if riot.Timer.Flag {
		f |= TimerFlag
	}
	if riot.PA7 {
		f |= PA7Flag
	}
	return f
}

func (riot *RIOT) updateIRQ() {
	riot.irqState = riot.Flags()&riot.IRQEnable != 0

	// the MIOT interrupt is only an output when PB7 is an input
	out := riot.irqState
	if riot.variant == MIOT6530 && riot.Ports.ReadDDR(ports.B)&0x80 != 0 {
		out = false
	}

	if out == riot.irqOut {
		return
	}
	riot.irqOut = out

	if riot.irq != nil {
		riot.irq.IRQ(out)
	} else if out {
		logger.Logf(logger.Allow, riot.tag, "unhandled IRQ")
	}
}

func (riot *RIOT) updatePA7() {
	if riot.variant != RIOT6532 {
		return
	}

	data := riot.Ports.Peek(ports.A) & 0x80
	var dir uint8
	if riot.PA7Rising {
		dir = 0x80
	}

	if riot.pa7Prev^data != 0 && dir^data == 0 {
		riot.PA7 = true
		riot.updateIRQ()
	}
	riot.pa7Prev = data
}

// the value of port B with the MIOT interrupt output applied to PB7
func (riot *RIOT) portB(v uint8) uint8 {
	if riot.variant == MIOT6530 && riot.Ports.ReadDDR(ports.B)&0x80 == 0 {
		v &= 0x7f
		if !riot.irqState {
			v |= 0x80
		}
	}
	return v
}

// SetInput sets the value being driven onto the pins of a port from outside
// the chip
func (riot *RIOT) SetInput(id ports.ID, data uint8) {
	riot.Ports.SetInput(id, data)
	if id == ports.A {
		riot.updatePA7()
	}
}

// ReadRegister implements the bus.RegisterPort interface
func (riot *RIOT) ReadRegister(offset uint8) uint8 {
	offset &= addressMask

	if offset&0x04 == 0 {
		id := ports.ID((offset >> 1) & 0x01)
		if offset&0x01 == 0x01 {
			return riot.Ports.ReadDDR(id)
		}

		v := riot.Ports.Read(id)
		if id == ports.A {
			riot.updatePA7()
		} else {
			v = riot.portB(v)
		}
		return v
	}

	if offset&0x01 == 0x01 {
		v := riot.Flags()
		riot.PA7 = false
		riot.updateIRQ()
		return v
	}

	riot.setTimerIRQ(offset&0x08 == 0x08)
	v := riot.Timer.Read()
	riot.updateIRQ()
	return v
}

// WriteRegister implements the bus.RegisterPort interface
func (riot *RIOT) WriteRegister(offset uint8, data uint8) {
	offset &= addressMask

	if offset&0x04 == 0 {
		id := ports.ID((offset >> 1) & 0x01)
		if offset&0x01 == 0x01 {
			riot.Ports.WriteDDR(id, data)
		} else {
			riot.Ports.Write(id, data)
		}
		if id == ports.A {
			riot.updatePA7()
		} else {
			riot.updateIRQ()
		}
		return
	}

	if offset&0x10 == 0x10 {
		riot.setTimerIRQ(offset&0x08 == 0x08)
		riot.Timer.Write(data, timer.IntervalFromSelect(offset))
		riot.updateIRQ()
		return
	}

	if riot.variant != RIOT6532 {
		logger.Logf(logger.Allow, riot.tag, "unhandled edge control write (%02x)", offset)
		return
	}

	riot.PA7Rising = offset&0x01 == 0x01
	if offset&0x02 == 0x02 {
		riot.IRQEnable |= PA7Flag
	} else {
		riot.IRQEnable &^= PA7Flag
	}
	riot.updateIRQ()
}

// PeekRegister implements the bus.DebuggerBus interface
func (riot *RIOT) PeekRegister(offset uint8) uint8 {
	offset &= addressMask

	if offset&0x04 == 0 {
		id := ports.ID((offset >> 1) & 0x01)
		if offset&0x01 == 0x01 {
			return riot.Ports.ReadDDR(id)
		}
		v := riot.Ports.Peek(id)
		if id == ports.B {
			v = riot.portB(v)
		}
		return v
	}

	if offset&0x01 == 0x01 {
		return riot.Flags()
	}

	return riot.Timer.Peek()
}

func (riot *RIOT) setTimerIRQ(enable bool) {
	if enable {
		riot.IRQEnable |= TimerFlag
	} else {
		riot.IRQEnable &^= TimerFlag
	}
}
