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
	"slices"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/gcr"
)

// Zone is a group of consecutive tracks with the same number of sectors
type Zone struct {
	Tracks  int
	Sectors int
}

// Geometry describes the layout of a disk. Zones are listed from the
// outermost track inwards
type Geometry struct {
	Name  string
	Sides int
	Zones []Zone
}

// Geometries of the drive family
var (
	Geometry2040 = Geometry{Name: "2040", Sides: 1, Zones: []Zone{{17, 21}, {7, 20}, {6, 18}, {5, 17}}}
	Geometry4040 = Geometry{Name: "4040", Sides: 1, Zones: []Zone{{17, 21}, {7, 19}, {6, 18}, {5, 17}}}
	Geometry8050 = Geometry{Name: "8050", Sides: 1, Zones: []Zone{{39, 29}, {14, 27}, {11, 25}, {13, 23}}}
	Geometry8250 = Geometry{Name: "8250", Sides: 2, Zones: []Zone{{39, 29}, {14, 27}, {11, 25}, {13, 23}}}
)

// Tracks returns the number of tracks on one side of the disk
func (g Geometry) Tracks() int {
	var n int
	for _, z := range g.Zones {
		n += z.Tracks
	}
	return n
}

// zone returns the zone index for a track. Tracks are numbered from one.
// Returns -1 if the track is not on the disk
func (g Geometry) zone(track int) int {
	if track < 1 {
		return -1
	}
	t := track
	for i, z := range g.Zones {
		if t <= z.Tracks {
			return i
		}
		t -= z.Tracks
	}
	return -1
}

// Sectors returns the number of sectors on a track. Tracks are numbered from
// one
func (g Geometry) Sectors(track int) int {
	z := g.zone(track)
	if z < 0 {
		return 0
	}
	return g.Zones[z].Sectors
}

// Density returns the density select value for the track. The outermost
// zone is recorded at the highest density
func (g Geometry) Density(track int) uint8 {
	z := g.zone(track)
	if z < 0 {
		return 0
	}
	return uint8(3 - min(z, 3))
}

// block identifiers
const (
	headerBlock = 0x08
	dataBlock   = 0x07
)

// SectorSize is the number of data bytes in a sector
const SectorSize = 256

// the number of 0xff bytes in a sync mark and the number of 0x55 bytes in
// each gap
const (
	syncBytes   = 5
	headerGap   = 9
	sectorGap   = 8
	gapByte     = 0x55
	syncByte    = 0xff
	headerBytes = 8
	dataBytes   = SectorSize + 4
)

// Filler returns the contents of a sector when formatting a disk. A nil
// Filler creates empty sectors. The returned slice can be shorter than
// SectorSize, in which case the rest of the sector is zero
type Filler func(side int, track int, sector int) []byte

// Format creates a disk with the geometry given. The id is written to the
// header of every sector
func Format(geom Geometry, id [2]byte, fill Filler) *Disk {
	d := &Disk{}
	d.Tracks = make([][][]byte, geom.Sides)
	for s := range geom.Sides {
		d.Tracks[s] = make([][]byte, geom.Tracks())
		for t := 1; t <= geom.Tracks(); t++ {
			d.Tracks[s][t-1] = formatTrack(geom, s, t, id, fill)
		}
	}
	return d
}

func formatTrack(geom Geometry, side int, track int, id [2]byte, fill Filler) []byte {
	var b []byte
	for sector := range geom.Sectors(track) {
		b = appendRepeat(b, syncByte, syncBytes)
		hdr := []byte{headerBlock, 0, byte(sector), byte(track), id[1], id[0], 0x0f, 0x0f}
		hdr[1] = hdr[2] ^ hdr[3] ^ hdr[4] ^ hdr[5]
		b = append(b, gcr.EncodeBytes(hdr)...)
		b = appendRepeat(b, gapByte, headerGap)

		b = appendRepeat(b, syncByte, syncBytes)
		data := make([]byte, dataBytes)
		data[0] = dataBlock
		if fill != nil {
			copy(data[1:SectorSize+1], fill(side, track, sector))
		}
		data[SectorSize+1] = checksum(data[1 : SectorSize+1])
		b = append(b, gcr.EncodeBytes(data)...)
		b = appendRepeat(b, gapByte, sectorGap)
	}
	return b
}

func appendRepeat(b []byte, v byte, n int) []byte {
	for range n {
		b = append(b, v)
	}
	return b
}

func checksum(data []byte) byte {
	var c byte
	for _, v := range data {
		c ^= v
	}
	return c
}

// Error patterns for ReadSector()
const (
	SectorNotFound = "floppy: sector %d not found on track %d"
	ChecksumError  = "floppy: checksum error in sector %d of track %d"
)

// trackBits reads bits from a track, wrapping at the end of the track
type trackBits struct {
	data []byte
	n    int
}

func (tb trackBits) bit(i int) uint8 {
	i %= tb.n
	return (tb.data[i>>3] >> (7 - i&0x07)) & 0x01
}

// decode n bytes of GCR starting at bit i. returns the bytes and whether all
// groups were valid
func (tb trackBits) decode(i int, n int) ([]byte, bool) {
	out := make([]byte, n)
	ok := true
	for j := range n {
		var code uint16
		for range 10 {
			code = code<<1 | uint16(tb.bit(i))
			i++
		}
		v, valid := gcr.Decode(code)
		out[j] = v
		ok = ok && valid
	}
	return out, ok
}

// syncs returns the bit positions of the first bit after every sync mark on
// the track
func (tb trackBits) syncs() []int {
	var s []int
	var ones int

	// a sync mark can straddle the end of the track so we go around the
	// track one and a bit times. marks ending in the first few bits are only
	// recorded on the second pass
	const lead = syncBytes * 8
	for i := range tb.n + lead {
		if tb.bit(i) == 1 {
			ones++
			continue
		}
		if ones >= 10 && i >= lead {
			s = append(s, i%tb.n)
		}
		ones = 0
	}
	slices.Sort(s)
	return s
}

// ReadSector finds and decodes a sector from the raw GCR data of a track.
// Tracks are numbered from one
func ReadSector(data []byte, track int, sector int) ([]byte, error) {
	if len(data) == 0 {
		return nil, curated.Errorf(SectorNotFound, sector, track)
	}

	tb := trackBits{data: data, n: len(data) * 8}
	syncs := tb.syncs()

	for i, s := range syncs {
		hdr, ok := tb.decode(s, headerBytes)
		if !ok || hdr[0] != headerBlock || int(hdr[2]) != sector || int(hdr[3]) != track {
			continue
		}
		if hdr[1] != hdr[2]^hdr[3]^hdr[4]^hdr[5] {
			return nil, curated.Errorf(ChecksumError, sector, track)
		}

		// the data block follows the next sync mark
		next := syncs[(i+1)%len(syncs)]
		blk, ok := tb.decode(next, dataBytes)
		if !ok || blk[0] != dataBlock {
			return nil, curated.Errorf(SectorNotFound, sector, track)
		}
		d := blk[1 : SectorSize+1]
		if checksum(d) != blk[SectorSize+1] {
			return nil, curated.Errorf(ChecksumError, sector, track)
		}
		return d, nil
	}

	return nil, curated.Errorf(SectorNotFound, sector, track)
}
