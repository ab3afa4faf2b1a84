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

// Package gcr implements the GCR (group coded recording) lookup table of the
// floppy disk controller, along with helpers for encoding and decoding whole
// blocks.
//
// The table stands in for the codec ROM of the controller board. It has 2048
// entries and is indexed by an 11 bit address. Bit 10 of the address selects
// between the two halves of the table:
//
// Read half (bit 10 set): the low 10 bits are two five bit GCR groups, high
// group first, as they arrive from the disk. The entry is the decoded byte.
// Groups that are not valid GCR codes decode to zero and the Valid() function
// reports them.
//
// Write half (bit 10 clear): the address is made up from the byte to be
// written and the mode select line
//
//	bit: 9 8 7 6 5 4 3 2 1 0
//	     0 h h h h m l l l l
//
// Every GCR code has the same value in bit 2 as the nibble it encodes. Those
// two bits are not stored in the table and the Encode() function puts them
// back from the address. Entries with the mode bit clear are all ones.
package gcr

import "fmt"

// ReadSelect is the address bit that selects the read half of the table
const ReadSelect = 0x400

// SyncMark is the pattern in the low 10 bits of the shift register that marks
// a sync. A sync mark cannot occur in a stream of GCR encoded bytes
const SyncMark = 0x3ff

// the number of entries in the table
const tableSize = 2048

// the five bit code for each nibble
var nibbleCodes = [16]uint8{
	0x0a, 0x0b, 0x12, 0x13, 0x0e, 0x0f, 0x16, 0x17,
	0x09, 0x19, 0x1a, 0x1b, 0x0d, 0x1d, 0x1e, 0x15,
}

// the nibble for each five bit code. invalid codes are 0xff
var codeNibbles [32]uint8

var table [tableSize]uint8

func init() {
	for i := range codeNibbles {
		codeNibbles[i] = 0xff
	}
	for n, c := range nibbleCodes {
		codeNibbles[c] = uint8(n)
	}

	// read half
	for c := range uint16(1024) {
		hi := codeNibbles[c>>5]
		lo := codeNibbles[c&0x1f]
		var v uint8
		if hi != 0xff {
			v = hi << 4
		}
		if lo != 0xff {
			v |= lo
		}
		table[ReadSelect|c] = v
	}

	// write half
	for a := range uint16(ReadSelect) {
		if a&0x10 == 0 {
			table[a] = 0xff
			continue
		}
		hi := nibbleCodes[(a>>5)&0x0f]
		lo := nibbleCodes[a&0x0f]
		table[a] = squeeze(hi)<<4 | squeeze(lo)
	}
}

// remove bit 2 from a five bit code
func squeeze(c uint8) uint8 {
	return (c>>1)&0x0c | c&0x03
}

// put bit 2 back into a squeezed four bit code
func expand(s uint8, bit2 bool) uint16 {
	c := uint16(s&0x0c)<<1 | uint16(s&0x03)
	if bit2 {
		c |= 0x04
	}
	return c
}

// Lookup returns the table entry for the address. Only the low 11 bits of
// the address are used
func Lookup(addr uint16) uint8 {
	return table[addr&(tableSize-1)]
}

// ReadAddress returns the table address for the low 10 bits of the shift
// register
func ReadAddress(shift uint16) uint16 {
	return ReadSelect | shift&0x3ff
}

// WriteAddress returns the table address for a byte to be written. The mode
// argument is the state of the mode select line
func WriteAddress(data uint8, mode bool) uint16 {
	a := uint16(data&0xf0)<<1 | uint16(data&0x0f)
	if mode {
		a |= 0x10
	}
	return a
}

// Valid returns false if either GCR group of a read address is not a valid
// code. Write addresses are always valid
func Valid(addr uint16) bool {
	if addr&ReadSelect == 0 {
		return true
	}
	return codeNibbles[(addr>>5)&0x1f] != 0xff && codeNibbles[addr&0x1f] != 0xff
}

// Decode a 10 bit GCR code. The second return value is false if the code is
// not valid
func Decode(code uint16) (uint8, bool) {
	addr := ReadAddress(code)
	return Lookup(addr), Valid(addr)
}

// Encode rebuilds the 10 bit GCR code from a write half entry and the address
// it was found at
func Encode(e uint8, addr uint16) uint16 {
	hi := expand(e>>4, addr&0x80 == 0x80)
	lo := expand(e&0x0f, addr&0x04 == 0x04)
	return hi<<5 | lo
}

// EncodeByte returns the 10 bit GCR code for a byte
func EncodeByte(data uint8) uint16 {
	addr := WriteAddress(data, true)
	return Encode(Lookup(addr), addr)
}

// EncodeBlock encodes four bytes as five bytes of GCR
func EncodeBlock(src [4]uint8) [5]uint8 {
	var acc uint64
	for _, b := range src {
		acc = acc<<10 | uint64(EncodeByte(b))
	}
	var dst [5]uint8
	for i := range dst {
		dst[i] = uint8(acc >> (32 - 8*i))
	}
	return dst
}

// DecodeBlock decodes five bytes of GCR to four bytes. The second return
// value is false if any of the GCR groups was not valid
func DecodeBlock(src [5]uint8) ([4]uint8, bool) {
	var acc uint64
	for _, b := range src {
		acc = acc<<8 | uint64(b)
	}
	var dst [4]uint8
	ok := true
	for i := range dst {
		v, valid := Decode(uint16(acc >> (30 - 10*i)))
		dst[i] = v
		ok = ok && valid
	}
	return dst, ok
}

// EncodeBytes encodes a slice of bytes. The length of the slice must be a multiple of four
func EncodeBytes(src []uint8) []uint8 {
	if len(src)%4 != 0 {
		panic(fmt.Sprintf("gcr: cannot encode %d bytes", len(src)))
	}
	dst := make([]uint8, 0, len(src)/4*5)
	for i := 0; i < len(src); i += 4 {
		b := EncodeBlock([4]uint8(src[i : i+4]))
		dst = append(dst, b[:]...)
	}
	return dst
}
