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

package floppy

import (
	"fmt"

	"github.com/jetsetilly/gopher2040/curated"
)

// Media is the source of track data for the units of a drive. The unit
// argument of each function selects the drive unit
type Media interface {
	// ReadCurrentTrack returns the track data under the head and the number
	// of bytes in the track. The returned slice must not be retained by the
	// caller
	ReadCurrentTrack(unit int, side int) ([]byte, int)

	// Seek moves the head of the unit by delta tracks
	Seek(unit int, delta int)

	WriteProtected(unit int) bool
}

// TrackWriter is an optional interface for Media implementations that can
// accept modified track data
type TrackWriter interface {
	WriteCurrentTrack(unit int, side int, data []byte)
}

// Error patterns for the MemoryMedia type
const (
	NoSuchUnit       = "floppy: no such unit (%d)"
	IncompatibleDisk = "floppy: disk has %d tracks, drive has %d"
)

// Disk is the raw GCR data of a disk
type Disk struct {
	// indexed by side and then by track
	Tracks       [][][]byte
	WriteProtect bool
}

// Sides returns the number of sides on the disk
func (d *Disk) Sides() int {
	return len(d.Tracks)
}

// Copy returns a deep copy of the disk
func (d *Disk) Copy() *Disk {
	n := &Disk{WriteProtect: d.WriteProtect}
	n.Tracks = make([][][]byte, len(d.Tracks))
	for s := range d.Tracks {
		n.Tracks[s] = make([][]byte, len(d.Tracks[s]))
		for t := range d.Tracks[s] {
			n.Tracks[s][t] = append([]byte{}, d.Tracks[s][t]...)
		}
	}
	return n
}

// MemoryMedia implements the Media and TrackWriter interfaces. Each unit can
// hold one Disk. The heads of the units move even when no disk is inserted
type MemoryMedia struct {
	tracks int
	disks  []*Disk
	heads  []int
}

// NewMemoryMedia is the preferred method of initialisation for the
// MemoryMedia type. The tracks argument is the number of positions the head
// can move to
func NewMemoryMedia(units int, tracks int) *MemoryMedia {
	return &MemoryMedia{
		tracks: tracks,
		disks:  make([]*Disk, units),
		heads:  make([]int, units),
	}
}

func (m *MemoryMedia) String() string {
	return fmt.Sprintf("units=%d heads=%v", len(m.disks), m.heads)
}

func (m *MemoryMedia) valid(unit int) bool {
	return unit >= 0 && unit < len(m.disks)
}

// Insert a disk into the unit. Any disk already in the unit is replaced
func (m *MemoryMedia) Insert(unit int, disk *Disk) error {
	if !m.valid(unit) {
		return curated.Errorf(NoSuchUnit, unit)
	}
	for _, s := range disk.Tracks {
		if len(s) > m.tracks {
			return curated.Errorf(IncompatibleDisk, len(s), m.tracks)
		}
	}
	m.disks[unit] = disk
	return nil
}

// Eject the disk from the unit. Returns the disk that was in the unit or nil
func (m *MemoryMedia) Eject(unit int) *Disk {
	if !m.valid(unit) {
		return nil
	}
	d := m.disks[unit]
	m.disks[unit] = nil
	return d
}

// Disk returns the disk in the unit or nil
func (m *MemoryMedia) Disk(unit int) *Disk {
	if !m.valid(unit) {
		return nil
	}
	return m.disks[unit]
}

// Head returns the position of the head for the unit
func (m *MemoryMedia) Head(unit int) int {
	if !m.valid(unit) {
		return 0
	}
	return m.heads[unit]
}

// ReadCurrentTrack implements the Media interface
func (m *MemoryMedia) ReadCurrentTrack(unit int, side int) ([]byte, int) {
	if !m.valid(unit) || m.disks[unit] == nil {
		return nil, 0
	}
	d := m.disks[unit]
	if side < 0 || side >= len(d.Tracks) {
		return nil, 0
	}
	h := m.heads[unit]
	if h >= len(d.Tracks[side]) {
		return nil, 0
	}
	t := d.Tracks[side][h]
	return t, len(t)
}

// Seek implements the Media interface. The head stops at the first and last
// track
func (m *MemoryMedia) Seek(unit int, delta int) {
	if !m.valid(unit) {
		return
	}
	m.heads[unit] = min(max(m.heads[unit]+delta, 0), m.tracks-1)
}

// WriteProtected implements the Media interface. A unit with no disk is
// write protected
func (m *MemoryMedia) WriteProtected(unit int) bool {
	if !m.valid(unit) || m.disks[unit] == nil {
		return true
	}
	return m.disks[unit].WriteProtect
}

// WriteCurrentTrack implements the TrackWriter interface
func (m *MemoryMedia) WriteCurrentTrack(unit int, side int, data []byte) {
	if m.WriteProtected(unit) {
		return
	}
	d := m.disks[unit]
	if side < 0 || side >= len(d.Tracks) {
		return
	}
	h := m.heads[unit]
	if h >= len(d.Tracks[side]) {
		return
	}
	d.Tracks[side][h] = append(d.Tracks[side][h][:0], data...)
}
