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

package host_test

import (
	"testing"

	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/peripherals"
	"github.com/jetsetilly/gopher2040/hardware/peripherals/host"
	"github.com/jetsetilly/gopher2040/test"
)

func TestHost(t *testing.T) {
	b := ieee488.NewBus()
	h := host.NewHost("host", b)
	o := host.NewHost("other", b)
	test.DemandSuccess(t, b.Attach(h))
	test.DemandSuccess(t, b.Attach(o))
	test.DemandImplements[peripherals.Peripheral](t, h)
	b.Start()

	test.DemandSuccess(t, h.Assert(ieee488.ATN))
	test.ExpectFailure(t, b.Line(ieee488.ATN))
	test.ExpectEquality(t, o.NotesString(), "ATN asserted")
	test.ExpectSuccess(t, o.Traces[ieee488.ATN].Falling())

	test.DemandSuccess(t, h.PutData(0x3c))
	test.ExpectEquality(t, b.Data(), 0x3c)
	test.ExpectEquality(t, o.NotesString(), "ATN asserted, DATA=3c")

	test.DemandSuccess(t, h.Release(ieee488.ATN))
	test.ExpectSuccess(t, o.Traces[ieee488.ATN].Rising())
	test.ExpectEquality(t, len(o.Notes()), 3)

	// the host sees its own changes
	test.ExpectEquality(t, len(h.Notes()), 3)
	h.ClearNotes()
	test.ExpectEquality(t, h.NotesString(), "")
}

func TestPulse(t *testing.T) {
	b := ieee488.NewBus()
	h := host.NewHost("host", b)
	test.DemandSuccess(t, b.Attach(h))

	var seen []bool
	h.OnLine = func(line ieee488.Line, value bool) {
		if line == ieee488.IFC {
			seen = append(seen, value)
		}
	}

	test.DemandSuccess(t, h.Pulse(ieee488.IFC))
	test.DemandEquality(t, len(seen), 2)
	test.ExpectFailure(t, seen[0])
	test.ExpectSuccess(t, seen[1])
	test.ExpectSuccess(t, b.Line(ieee488.IFC))

	tr := h.Traces[ieee488.IFC].String()
	test.ExpectEquality(t, tr[len(tr)-3:], "-_-")
}

func TestReset(t *testing.T) {
	b := ieee488.NewBus()
	h := host.NewHost("host", b)
	test.DemandSuccess(t, b.Attach(h))

	test.DemandSuccess(t, h.Assert(ieee488.REN))
	test.DemandSuccess(t, h.PutData(0x00))
	b.Reset()
	test.ExpectSuccess(t, b.Line(ieee488.REN))
	test.ExpectEquality(t, b.Data(), 0xff)

	// unattached hosts cannot drive the bus
	u := host.NewHost("unattached", b)
	test.ExpectFailure(t, u.Assert(ieee488.ATN))
}
