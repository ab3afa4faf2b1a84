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

package digest_test

import (
	"testing"

	"github.com/jetsetilly/gopher2040/digest"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/fdc"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/test"
)

// spin a newly formatted disk for the number of bit cells and return the
// digest of the signal seen by the head
func spin(id [2]byte, bits int) *digest.Bits {
	media := floppy.NewMemoryMedia(1, floppy.Geometry4040.Tracks())
	_ = media.Insert(0, floppy.Format(floppy.Geometry4040, id, nil))

	sch := scheduler.NewScheduler()
	ctrl := fdc.NewController("fdc", sch, floppy.NewUnit(0, floppy.StepperA, media))
	dig := digest.NewBits()
	ctrl.AddObserver(dig)

	ctrl.WriteRegister(fdc.RegDrive, 0x10)
	sch.Advance(scheduler.Time(clocks.BitPeriod(0)) * scheduler.Time(bits))
	return dig
}

func TestBits(t *testing.T) {
	empty := digest.NewBits()
	test.ExpectEquality(t, empty.String(), "0000000000000000000000000000000000000000")

	// long enough for the buffer to be flushed several times
	a := spin([2]byte{'a', 'b'}, 40000)
	b := spin([2]byte{'a', 'b'}, 40000)
	c := spin([2]byte{'x', 'y'}, 40000)

	test.ExpectEquality(t, a.Len(), 40000)
	test.ExpectEquality(t, a.String(), b.String())
	test.ExpectInequality(t, a.String(), c.String())

	// a partial byte changes the digest
	d := spin([2]byte{'a', 'b'}, 40003)
	test.ExpectInequality(t, a.String(), d.String())

	a.ResetDigest()
	test.ExpectEquality(t, a.String(), empty.String())
	test.ExpectEquality(t, a.Len(), 0)
}
