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

package digest

import (
	"crypto/sha1"
	"fmt"
)

// the length of the buffer. the first part of the buffer is the previous
// digest value
const bitsBufferLength = 1024 + sha1.Size

// digest values are chained by copying the previous value into the start of
// the buffer
const bitsBufferStart = sha1.Size

// Bits implements the fdc.BitObserver interface
type Bits struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int

	// the shift register that collects bits into bytes
	shift uint8
	count int

	// the number of bits seen
	total int
}

// NewBits is the preferred method of initialisation for the Bits type
func NewBits() *Bits {
	dig := &Bits{}
	dig.buffer = make([]uint8, bitsBufferLength)
	dig.bufferCt = bitsBufferStart
	return dig
}

// String returns the digest value. Any bits that have not yet filled the
// buffer are included
func (dig *Bits) String() string {
	return fmt.Sprintf("%x", dig.Hash())
}

// Hash returns the digest value as a byte array
func (dig *Bits) Hash() [sha1.Size]byte {
	if dig.bufferCt == bitsBufferStart && dig.count == 0 {
		return dig.digest
	}
	b := append([]uint8{}, dig.buffer[:dig.bufferCt]...)
	b = append(b, dig.shift, uint8(dig.count))
	return sha1.Sum(b)
}

// Len returns the number of bits seen
func (dig *Bits) Len() int {
	return dig.total
}

// ResetDigest resets the current digest value to 0
func (dig *Bits) ResetDigest() {
	clear(dig.digest[:])
	clear(dig.buffer)
	dig.bufferCt = bitsBufferStart
	dig.shift = 0
	dig.count = 0
	dig.total = 0
}

// ObserveBit implements the fdc.BitObserver interface. The unit number is
// included in the digest
func (dig *Bits) ObserveBit(unit int, bit uint8) {
	dig.total++
	dig.shift = dig.shift<<1 | bit&0x01
	dig.count++
	if dig.count < 8 {
		return
	}

	dig.buffer[dig.bufferCt] = dig.shift ^ uint8(unit)
	dig.bufferCt++
	dig.shift = 0
	dig.count = 0

	if dig.bufferCt >= bitsBufferLength {
		dig.flush()
	}
}

func (dig *Bits) flush() {
	dig.digest = sha1.Sum(dig.buffer)
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = bitsBufferStart
}
