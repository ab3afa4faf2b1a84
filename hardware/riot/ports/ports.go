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

// Package ports implements the two eight bit input/output ports of the RIOT
// and MIOT chips. Each port has a data direction register (DDR). A one bit in
// the DDR marks the corresponding pin as an output.
//
// What the ports are connected to is supplied by the device that contains the
// chip, through the Source and Sink interfaces. A port with nothing connected
// holds whatever was last given to SetInput().
package ports

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher2040/logger"
)

// ID identifies one of the two ports
type ID int

// List of valid port IDs
const (
	A ID = iota
	B
)

func (id ID) String() string {
	switch id {
	case A:
		return "PA"
	case B:
		return "PB"
	}
	return "P?"
}

// Source is implemented by devices that supply the input pins of a port. The
// source is consulted on every processor read of the port
type Source interface {
	ReadPort(id ID) uint8
}

// Sink is implemented by devices that are connected to the output pins of a
// port. The sink is called on every processor write of the port with the
// value on the pins
type Sink interface {
	WritePort(id ID, data uint8)
}

// Port is the state of a single port
type Port struct {
	Out uint8
	In  uint8
	DDR uint8
}

// Value is the value on the pins of the port. Output bits come from the
// output register and input bits from whatever is driving the pins
func (p Port) Value() uint8 {
	return (p.Out & p.DDR) | (p.In &^ p.DDR)
}

// Ports implements the input/output part of the RIOT (the IO in RIOT)
type Ports struct {
	tag string

	A Port
	B Port

	source Source
	sink   Sink
}

// NewPorts is the preferred method of initialisation of the Ports type
func NewPorts(tag string) *Ports {
	p := &Ports{tag: tag}
	p.Reset()
	return p
}

// Plumb connects the ports to the outside world. Either argument can be nil
func (p *Ports) Plumb(source Source, sink Sink) {
	p.source = source
	p.sink = sink
}

// Snapshot returns a copy of the ports. The copy is not plumbed
func (p *Ports) Snapshot() *Ports {
	n := *p
	n.source = nil
	n.sink = nil
	return &n
}

func (p *Ports) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("PA=%02x DDRA=%02x ", p.A.Value(), p.A.DDR))
	s.WriteString(fmt.Sprintf("PB=%02x DDRB=%02x", p.B.Value(), p.B.DDR))
	return s.String()
}

// Reset ports to their power-on state. Every pin is an input and the output
// registers are cleared. Inputs are left as they are
func (p *Ports) Reset() {
	p.A.Out = 0
	p.A.DDR = 0
	p.B.Out = 0
	p.B.DDR = 0
}

func (p *Ports) port(id ID) *Port {
	if id == A {
		return &p.A
	}
	return &p.B
}

// Read the value on the pins of the port as seen by the processor. The
// source, if there is one, is asked for the current inputs
func (p *Ports) Read(id ID) uint8 {
	port := p.port(id)
	if p.source != nil {
		port.In = p.source.ReadPort(id)
	}
	return port.Value()
}

// Peek returns the value on the pins without consulting the source
func (p *Ports) Peek(id ID) uint8 {
	return p.port(id).Value()
}

// ReadDDR returns the data direction register of the port
func (p *Ports) ReadDDR(id ID) uint8 {
	return p.port(id).DDR
}

// Write data to the output register of the port. Only bits that are outputs
// are changed. The sink is then called with the value on the pins
func (p *Ports) Write(id ID, data uint8) {
	port := p.port(id)
	port.Out = (port.Out &^ port.DDR) | (data & port.DDR)

	if p.sink == nil {
		logger.Logf(logger.Allow, p.tag, "unhandled write to %s (%02x)", id, data)
		return
	}
	p.sink.WritePort(id, port.Value())
}

// WriteDDR sets the data direction register of the port
func (p *Ports) WriteDDR(id ID, data uint8) {
	p.port(id).DDR = data
}

// SetInput sets the value being driven onto the pins of the port from
// outside the chip. Bits that are outputs are not affected
func (p *Ports) SetInput(id ID, data uint8) {
	p.port(id).In = data
}
