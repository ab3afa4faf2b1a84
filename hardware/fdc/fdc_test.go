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

package fdc_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/fdc"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/gcr"
	"github.com/jetsetilly/gopher2040/hardware/memory/bus"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
	"github.com/jetsetilly/gopher2040/test"
)

type signals struct {
	ready []bool
	err   []bool
}

func (s *signals) ByteReady(ready bool) {
	s.ready = append(s.ready, ready)
}

func (s *signals) Error(err bool) {
	s.err = append(s.err, err)
}

type observer struct {
	bits []uint8
}

func (o *observer) ObserveBit(unit int, bit uint8) {
	o.bits = append(o.bits, bit)
}

// a track made of two sync bytes followed by GCR data
func syncTrack(data ...byte) []byte {
	t := []byte{0xff, 0xff}
	t = append(t, gcr.EncodeBytes(data)...)
	for range 10 {
		t = append(t, 0x55)
	}
	return t
}

type fixture struct {
	sch   *scheduler.Scheduler
	media *floppy.MemoryMedia
	disk  *floppy.Disk
	fdc   *fdc.Controller
	sig   *signals
}

func newFixture(t *testing.T, track []byte) *fixture {
	t.Helper()
	f := &fixture{
		sch:   scheduler.NewScheduler(),
		media: floppy.NewMemoryMedia(2, 2),
		disk:  &floppy.Disk{Tracks: [][][]byte{{track, make([]byte, 20)}}},
		sig:   &signals{},
	}
	test.DemandSuccess(t, f.media.Insert(0, f.disk))
	u0 := floppy.NewUnit(0, floppy.StepperB, f.media)
	u1 := floppy.NewUnit(1, floppy.StepperB, f.media)
	f.fdc = fdc.NewController("fdc", f.sch, u0, u1)
	f.fdc.Plumb(f.sig)
	return f
}

// run for a number of bit periods at the current density
func (f *fixture) bits(n int) {
	f.sch.Advance(scheduler.Time(n) * scheduler.Time(clocks.BitPeriod(f.fdc.Density)))
}

func TestInterfaces(t *testing.T) {
	f := newFixture(t, syncTrack(0, 0, 0, 0))
	test.DemandImplements[bus.Chip](t, f.fdc)
}

func TestSpindleGatesBitClock(t *testing.T) {
	f := newFixture(t, syncTrack(0x08, 0x01, 0x02, 0x03))
	o := &observer{}
	f.fdc.AddObserver(o)

	f.bits(100)
	test.ExpectEquality(t, len(o.bits), 0)
	test.ExpectEquality(t, f.fdc.Units()[0].BufferPos, 0)

	// MTR0 is active low
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)
	test.ExpectSuccess(t, f.fdc.Units()[0].Spindle)
	test.ExpectFailure(t, f.fdc.Units()[1].Spindle)

	f.bits(16)
	test.ExpectEquality(t, len(o.bits), 16)
	test.ExpectEquality(t, f.fdc.Units()[0].BufferPos, 2)
	for _, b := range o.bits {
		test.ExpectEquality(t, b, 1)
	}
}

func TestSyncAndByteReady(t *testing.T) {
	f := newFixture(t, syncTrack(0x08, 0x01, 0x02, 0x03))
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)

	// ten bits of ones is a sync mark
	f.bits(9)
	test.ExpectFailure(t, f.fdc.Sync)
	test.ExpectEquality(t, f.fdc.BitCount, 9)
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegDrive)&0x80, 0x80)

	f.bits(1)
	test.ExpectSuccess(t, f.fdc.Sync)
	test.ExpectEquality(t, f.fdc.BitCount, 0)
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegDrive)&0x80, 0x00)

	// the sync lasts until the first zero bit
	f.bits(6)
	test.ExpectSuccess(t, f.fdc.Sync)
	test.ExpectEquality(t, f.fdc.BitCount, 0)

	// byte ready after exactly ten more bits
	f.bits(9)
	test.ExpectFailure(t, f.fdc.Sync)
	test.ExpectEquality(t, f.fdc.BitCount, 9)
	test.ExpectFailure(t, f.fdc.ByteReady)

	f.bits(1)
	test.ExpectSuccess(t, f.fdc.ByteReady)
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegStatus)&0x01, 0x00)
	test.DemandEquality(t, len(f.sig.ready), 1)
	test.ExpectSuccess(t, f.sig.ready[0])

	// reading the data clears byte ready
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegData), 0x08)
	test.ExpectFailure(t, f.fdc.ByteReady)
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegStatus)&0x01, 0x01)

	for _, v := range []uint8{0x01, 0x02, 0x03} {
		f.bits(10)
		test.ExpectSuccess(t, f.fdc.ByteReady)
		test.ExpectEquality(t, f.fdc.Latch, v)
		f.fdc.ClearByteReady()
	}

	// byte ready is only published on edges
	test.ExpectEquality(t, len(f.sig.ready), 8)
	test.ExpectEquality(t, len(f.sig.err), 0)
}

func TestByteReadyEdges(t *testing.T) {
	f := newFixture(t, syncTrack(0x08, 0x01, 0x02, 0x03))
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)

	// without clearing, byte ready stays high and is not published again
	f.bits(16 + 40)
	test.ExpectSuccess(t, f.fdc.ByteReady)
	test.ExpectEquality(t, len(f.sig.ready), 1)
	test.ExpectEquality(t, f.fdc.Latch, 0x03)
}

func TestErrorFlag(t *testing.T) {
	// the bytes after the GCR data are not valid GCR
	track := []byte{0xff, 0xff, 0x00, 0x00, 0x00, 0x00}
	f := newFixture(t, track)
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)

	f.bits(16 + 10)
	test.ExpectSuccess(t, f.fdc.ByteReady)
	test.ExpectSuccess(t, f.fdc.Error)
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegStatus)&0x02, 0x00)
	test.DemandEquality(t, len(f.sig.err), 1)
	test.ExpectSuccess(t, f.sig.err[0])
}

func TestDensity(t *testing.T) {
	f := newFixture(t, syncTrack(0x08, 0x01, 0x02, 0x03))
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)
	o := &observer{}
	f.fdc.AddObserver(o)

	f.sch.Advance(scheduler.Time(clocks.BitPeriod(0)) * 4)
	test.ExpectEquality(t, len(o.bits), 4)

	// the new rate takes effect immediately and the bit counter is kept
	count := f.fdc.BitCount
	f.fdc.SetDensity(3)
	test.ExpectEquality(t, f.fdc.BitCount, count)
	f.sch.Advance(scheduler.Time(clocks.BitPeriod(3)) * 5)
	test.ExpectEquality(t, len(o.bits), 9)
	test.ExpectEquality(t, f.fdc.BitCount, count+5)
}

// read n bits from the start of a track
func trackBits(track []byte, n int) uint16 {
	var v uint16
	for i := range n {
		v = v<<1 | uint16(track[i>>3]>>(7-i&0x07))&0x01
	}
	return v
}

func TestWrite(t *testing.T) {
	f := newFixture(t, make([]byte, 20))
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)

	// write a GCR byte
	f.fdc.WriteRegister(fdc.RegData, 0x08)
	f.fdc.WriteRegister(fdc.RegMode, 0x01)
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegMode), 0x01)

	f.bits(10)
	u := f.fdc.Units()[0]
	test.ExpectEquality(t, trackBits(u.Track, 10), gcr.EncodeByte(0x08))
	test.ExpectSuccess(t, f.fdc.ByteReady)

	// the next byte is loaded at the boundary. switching to sync mode takes
	// effect on the byte after that
	f.fdc.ClearByteReady()
	f.fdc.WriteRegister(fdc.RegMode, 0x00)
	f.bits(10)
	test.ExpectEquality(t, trackBits(u.Track, 20)&gcr.SyncMark, gcr.EncodeByte(0x08))
	f.bits(10)
	test.ExpectEquality(t, trackBits(u.Track, 30)&gcr.SyncMark, gcr.SyncMark)

	// the track is written back when the motor stops
	f.fdc.WriteRegister(fdc.RegMode, 0x03)
	f.fdc.WriteRegister(fdc.RegDrive, 0x30)
	test.ExpectEquality(t, trackBits(f.disk.Tracks[0][0], 10), gcr.EncodeByte(0x08))
}

func TestWriteProtect(t *testing.T) {
	f := newFixture(t, make([]byte, 20))
	f.disk.WriteProtect = true
	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegStatus)&0x04, 0x04)

	f.fdc.WriteRegister(fdc.RegDrive, 0x10)
	f.fdc.WriteRegister(fdc.RegData, 0xff)
	f.fdc.WriteRegister(fdc.RegMode, 0x00)
	f.bits(20)
	test.ExpectEquality(t, f.fdc.Units()[0].Track[0], 0x00)
	test.ExpectFailure(t, f.fdc.Units()[0].Dirty)
}

func TestStepper(t *testing.T) {
	f := newFixture(t, syncTrack(0, 0, 0, 0))

	// drive 0 phase 1 with both motors off
	f.fdc.WriteRegister(fdc.RegDrive, 0x31)
	test.ExpectEquality(t, f.media.Head(0), 1)
	test.ExpectEquality(t, f.fdc.Units()[0].TrackLen, 20)

	// drive 1 moves independently
	f.fdc.WriteRegister(fdc.RegDrive, 0x35)
	test.ExpectEquality(t, f.media.Head(1), 1)
	test.ExpectEquality(t, f.media.Head(0), 1)

	test.ExpectEquality(t, f.fdc.ReadRegister(fdc.RegDrive)&0x7f, 0x35)
}

func TestStepperResetsBitCount(t *testing.T) {
	f := newFixture(t, syncTrack(0x08, 0, 0, 0))
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)
	f.bits(3)
	test.DemandEquality(t, f.fdc.BitCount, 3)

	// stopping a unit that is not selected leaves the bit counter alone
	f.fdc.SelectDrive(1)
	f.fdc.SetSpindle(0, false)
	f.fdc.SelectDrive(0)
	test.DemandEquality(t, f.fdc.BitCount, 3)

	// stepping the selected unit reloads the track
	f.fdc.Step(0, 1)
	test.ExpectEquality(t, f.media.Head(0), 1)
	test.ExpectEquality(t, f.fdc.BitCount, 0)
	test.ExpectEquality(t, f.fdc.Units()[0].BufferPos, 0)

	// a phase change that is not adjacent does not move the head
	f.fdc.WriteRegister(fdc.RegDrive, 0x11)
	f.bits(2)
	f.fdc.SelectDrive(1)
	f.fdc.SetSpindle(0, false)
	f.fdc.SelectDrive(0)
	f.fdc.Step(0, 2)
	test.ExpectEquality(t, f.media.Head(0), 1)
	test.ExpectEquality(t, f.fdc.BitCount, 2)
}

func TestUnmapped(t *testing.T) {
	logger.Clear()
	f := newFixture(t, syncTrack(0, 0, 0, 0))

	test.ExpectEquality(t, f.fdc.ReadRegister(0x04), 0x00)
	f.fdc.WriteRegister(0x07, 0xff)

	w := &strings.Builder{}
	logger.Tail(w, 2)
	test.ExpectEquality(t, w.String(), "fdc: unmapped read (04)\nfdc: unmapped write (07)\n")
}

func TestReset(t *testing.T) {
	f := newFixture(t, syncTrack(0x08, 0, 0, 0))
	f.fdc.WriteRegister(fdc.RegDrive, 0x10)
	f.fdc.SetDensity(2)
	f.bits(26)
	test.ExpectSuccess(t, f.fdc.ByteReady)

	s := f.fdc.Snapshot()

	f.fdc.Reset()
	test.ExpectFailure(t, f.fdc.ByteReady)
	test.ExpectEquality(t, f.fdc.Density, 0)
	test.ExpectFailure(t, f.fdc.Units()[0].Spindle)
	test.ExpectEquality(t, f.sig.ready[len(f.sig.ready)-1], false)

	test.ExpectSuccess(t, s.ByteReady)
	test.ExpectEquality(t, s.Density, 2)
	test.ExpectSuccess(t, s.Units()[0].Spindle)
}
