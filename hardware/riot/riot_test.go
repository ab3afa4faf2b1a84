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

package riot_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/memory/bus"
	"github.com/jetsetilly/gopher2040/hardware/riot"
	"github.com/jetsetilly/gopher2040/hardware/riot/ports"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
	"github.com/jetsetilly/gopher2040/test"
)

const divider = 16

// register offsets used in the tests
const (
	PA      = 0x00
	DDRA    = 0x01
	PB      = 0x02
	DDRB    = 0x03
	EDGE    = 0x04
	TIMER   = 0x04
	FLAGS   = 0x05
	TIM8T   = 0x15
	TIM1TI  = 0x1c
	TIM8TI  = 0x1d
	TIMERI  = 0x0c
	EDGEPOS = 0x05
)

type board struct {
	in      [2]uint8
	written [2][]uint8
	irq     []bool
}

func (b *board) ReadPort(id ports.ID) uint8 {
	return b.in[id]
}

func (b *board) WritePort(id ports.ID, data uint8) {
	b.written[id] = append(b.written[id], data)
}

func (b *board) IRQ(asserted bool) {
	b.irq = append(b.irq, asserted)
}

func newChip(variant riot.Variant) (*riot.RIOT, *board, *scheduler.Scheduler) {
	sch := scheduler.NewScheduler()
	r := riot.NewRIOT("riot: test", variant, sch, divider)
	b := &board{}
	r.Plumb(b, b, b)
	return r, b, sch
}

func cycles(sch *scheduler.Scheduler, n int) {
	sch.Advance(scheduler.Time(n) * divider)
}

func TestInterfaces(t *testing.T) {
	r, _, _ := newChip(riot.RIOT6532)
	test.DemandImplements[bus.Chip](t, r)
}

func TestPorts(t *testing.T) {
	r, b, _ := newChip(riot.RIOT6532)

	r.WriteRegister(DDRB, 0xf0)
	test.ExpectEquality(t, r.ReadRegister(DDRB), 0xf0)

	b.in[ports.B] = 0x5a
	r.WriteRegister(PB, 0xff)
	test.DemandEquality(t, len(b.written[ports.B]), 1)
	test.ExpectEquality(t, b.written[ports.B][0], 0xf0)
	test.ExpectEquality(t, r.ReadRegister(PB), 0xfa)

	// the register map is mirrored every 32 addresses
	test.ExpectEquality(t, r.ReadRegister(PB|0x20), 0xfa)
	test.ExpectEquality(t, r.ReadRegister(PB|0x80), 0xfa)
	test.ExpectEquality(t, r.PeekRegister(PB|0x08), 0xfa)
}

func TestTimerIRQ(t *testing.T) {
	r, b, sch := newChip(riot.RIOT6532)

	// timer with IRQ enabled
	r.WriteRegister(TIM8TI, 100)
	test.ExpectEquality(t, r.ReadRegister(TIMERI), 100)

	cycles(sch, 799)
	test.ExpectEquality(t, r.PeekRegister(FLAGS), 0x00)
	test.ExpectEquality(t, len(b.irq), 0)

	cycles(sch, 1)
	test.ExpectEquality(t, r.PeekRegister(FLAGS), riot.TimerFlag)
	test.DemandEquality(t, len(b.irq), 1)
	test.ExpectEquality(t, b.irq[0], true)

	// reading the flags does not clear the timer flag
	test.ExpectEquality(t, r.ReadRegister(FLAGS), riot.TimerFlag)
	test.ExpectEquality(t, r.IRQ(), true)

	// reading the timer does
	cycles(sch, 2)
	test.ExpectEquality(t, r.ReadRegister(TIMERI), 0xfe)
	test.ExpectEquality(t, r.IRQ(), false)
	test.DemandEquality(t, len(b.irq), 2)
	test.ExpectEquality(t, b.irq[1], false)
}

func TestTimerIRQDisabled(t *testing.T) {
	r, b, sch := newChip(riot.RIOT6532)

	r.WriteRegister(TIM8T, 1)
	cycles(sch, 8)
	test.ExpectEquality(t, r.PeekRegister(FLAGS), riot.TimerFlag)
	test.ExpectEquality(t, len(b.irq), 0)

	// enabling the IRQ with a timer read asserts it if the flag is still set
	// at the moment of the read. reading 0xff preserves the flag
	cycles(sch, 1)
	test.ExpectEquality(t, r.ReadRegister(TIMERI), 0xff)
	test.ExpectEquality(t, r.IRQ(), true)
}

func TestPA7Edge(t *testing.T) {
	r, b, _ := newChip(riot.RIOT6532)

	// negative edge with IRQ enabled
	r.WriteRegister(EDGE|0x02, 0)

	r.SetInput(ports.A, 0x80)
	test.ExpectEquality(t, r.PA7, false)

	r.SetInput(ports.A, 0x00)
	test.ExpectEquality(t, r.PA7, true)
	test.ExpectEquality(t, r.IRQ(), true)
	test.DemandEquality(t, len(b.irq), 1)

	// reading the flags clears the PA7 flag
	test.ExpectEquality(t, r.ReadRegister(FLAGS), riot.PA7Flag)
	test.ExpectEquality(t, r.PA7, false)
	test.ExpectEquality(t, r.IRQ(), false)

	// positive edge without IRQ
	r.WriteRegister(EDGEPOS, 0)
	r.SetInput(ports.A, 0x80)
	test.ExpectEquality(t, r.PA7, true)
	test.ExpectEquality(t, r.IRQ(), false)
	r.ReadRegister(FLAGS)

	// falling edge is ignored
	r.SetInput(ports.A, 0x00)
	test.ExpectEquality(t, r.PA7, false)

	// an output on PA7 also counts
	r.WriteRegister(DDRA, 0x80)
	r.WriteRegister(PA, 0x80)
	test.ExpectEquality(t, r.PA7, true)
}

func TestPA7EdgeFromSource(t *testing.T) {
	r, b, _ := newChip(riot.RIOT6532)
	r.WriteRegister(EDGE, 0)

	b.in[ports.A] = 0x80
	r.ReadRegister(PA)
	test.ExpectEquality(t, r.PA7, false)

	b.in[ports.A] = 0x00
	test.ExpectEquality(t, r.ReadRegister(PA), 0x00)
	test.ExpectEquality(t, r.PA7, true)
}

func TestMIOT(t *testing.T) {
	logger.Clear()
	r, b, sch := newChip(riot.MIOT6530)

	// edge control is not available
	r.WriteRegister(EDGE|0x02, 0)
	w := &strings.Builder{}
	logger.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "riot: test: unhandled edge control write (06)\n")
	r.SetInput(ports.A, 0x80)
	r.SetInput(ports.A, 0x00)
	test.ExpectEquality(t, r.PA7, false)

	// PB7 is the active low IRQ output when it is an input
	test.ExpectEquality(t, r.ReadRegister(PB)&0x80, 0x80)
	r.WriteRegister(TIM8TI, 1)
	cycles(sch, 8)
	test.ExpectEquality(t, r.IRQ(), true)
	test.ExpectEquality(t, r.PeekRegister(PB)&0x80, 0x00)
	test.DemandEquality(t, len(b.irq), 1)

	// when PB7 is an output the pin is not the IRQ
	r.WriteRegister(DDRB, 0x80)
	r.WriteRegister(PB, 0x80)
	test.ExpectEquality(t, r.ReadRegister(PB)&0x80, 0x80)
	test.ExpectEquality(t, r.IRQ(), true)
	test.DemandEquality(t, len(b.irq), 2)
	test.ExpectEquality(t, b.irq[1], false)

	// and is seen again when PB7 becomes an input
	r.WriteRegister(DDRB, 0x00)
	test.DemandEquality(t, len(b.irq), 3)
	test.ExpectEquality(t, b.irq[2], true)

	// an interrupt raised while PB7 is an output reaches the sink when PB7
	// becomes an input
	r.WriteRegister(DDRB, 0x80)
	r.ReadRegister(TIMER)
	test.ExpectEquality(t, r.IRQ(), false)
	r.WriteRegister(TIM1TI, 2)
	cycles(sch, 2)
	test.ExpectEquality(t, r.IRQ(), true)
	test.DemandEquality(t, len(b.irq), 4)
	test.ExpectEquality(t, b.irq[3], false)

	r.WriteRegister(DDRB, 0x00)
	test.DemandEquality(t, len(b.irq), 5)
	test.ExpectEquality(t, b.irq[4], true)
}

func TestReset(t *testing.T) {
	r, b, sch := newChip(riot.RIOT6532)

	r.WriteRegister(DDRA, 0xff)
	r.WriteRegister(TIM8TI, 1)
	cycles(sch, 8)
	test.ExpectEquality(t, r.IRQ(), true)

	s := r.Snapshot()

	r.Reset()
	test.ExpectEquality(t, r.IRQ(), false)
	test.ExpectEquality(t, r.ReadRegister(DDRA), 0x00)
	test.ExpectEquality(t, r.PeekRegister(TIMER), 0x00)
	test.ExpectEquality(t, b.irq[len(b.irq)-1], false)

	// snapshot is unaffected by the reset
	test.ExpectEquality(t, s.IRQ(), true)
	test.ExpectEquality(t, s.PeekRegister(DDRA), 0xff)
}

func TestArena(t *testing.T) {
	sch := scheduler.NewScheduler()
	var a riot.Arena

	h1 := a.Add(riot.NewRIOT("UC1", riot.RIOT6532, sch, divider))
	h2 := a.Add(riot.NewRIOT("UK3", riot.MIOT6530, sch, divider))
	test.ExpectEquality(t, a.Len(), 2)

	c, err := a.Get(h2)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Tag(), "UK3")
	test.ExpectEquality(t, c.Variant(), riot.MIOT6530)

	c, err = a.Get(h1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Tag(), "UC1")

	_, err = a.Get(riot.Handle(0))
	test.ExpectSuccess(t, curated.Is(err, riot.UnknownHandle))
	_, err = a.Get(riot.Handle(3))
	test.ExpectSuccess(t, curated.Is(err, riot.UnknownHandle))

	test.ExpectEquality(t, len(a.Snapshot()), 2)
}
