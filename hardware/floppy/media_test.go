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

package floppy_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/test"
)

func TestMemoryMedia(t *testing.T) {
	media := floppy.NewMemoryMedia(2, 35)

	err := media.Insert(2, &floppy.Disk{})
	test.ExpectSuccess(t, curated.Is(err, floppy.NoSuchUnit))

	err = media.Insert(0, floppy.Format(floppy.Geometry8050, [2]byte{'a', 'b'}, nil))
	test.ExpectSuccess(t, curated.Is(err, floppy.IncompatibleDisk))

	disk := floppy.Format(floppy.Geometry2040, [2]byte{'a', 'b'}, nil)
	test.DemandSuccess(t, media.Insert(0, disk))
	test.ExpectEquality(t, media.Disk(0), disk)
	test.ExpectFailure(t, media.WriteProtected(0))

	// seeks are clamped
	media.Seek(0, -1)
	test.ExpectEquality(t, media.Head(0), 0)
	media.Seek(0, 100)
	test.ExpectEquality(t, media.Head(0), 34)

	data, n := media.ReadCurrentTrack(0, 0)
	test.ExpectEquality(t, n, len(disk.Tracks[0][34]))
	test.ExpectSuccess(t, bytes.Equal(data, disk.Tracks[0][34]))

	// there is no second side
	_, n = media.ReadCurrentTrack(0, 1)
	test.ExpectEquality(t, n, 0)

	test.ExpectEquality(t, media.Eject(0), disk)
	test.ExpectSuccess(t, media.WriteProtected(0))
	_, n = media.ReadCurrentTrack(0, 0)
	test.ExpectEquality(t, n, 0)
}

func TestCopy(t *testing.T) {
	disk := floppy.Format(floppy.Geometry2040, [2]byte{'a', 'b'}, nil)
	c := disk.Copy()
	c.Tracks[0][0][0] = 0x00
	test.ExpectEquality(t, disk.Tracks[0][0][0], 0xff)
	test.ExpectEquality(t, c.Sides(), 1)
}
