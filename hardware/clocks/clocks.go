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

// Package clocks defines the constant values that define the speed of the
// clocks in the disk drive family.
//
// Logical time throughout the emulation is measured in ticks of the master
// crystal. The processors and the RIOT chips are clocked by dividing the
// master crystal, as is the bit cell period of the read/write head.
package clocks

import "math"

// Master is the frequency of the master crystal in Hz. One logical time unit
// is one period of this clock.
const Master = 16_000_000

// ChipDivider is the number of master clock ticks per processor and RIOT
// cycle. The chips run at 1MHz
const ChipDivider = 16

// the bit cell is clocked by dividing the master clock by (16 - density) and
// then by four
const bitCellPrescale = 4

// BitPeriod returns the number of master clock ticks per bit cell for the
// density select value. Density zero is the slowest rate and is used for the
// innermost tracks. Only the lowest two bits of the density value are used
func BitPeriod(density uint8) int64 {
	return int64(16-int(density&0x03)) * bitCellPrescale
}

// BitRate returns the number of bit cells per second for the density
// select value
func BitRate(density uint8) float64 {
	return float64(Master) / float64(BitPeriod(density))
}

// Duration converts a number of seconds to master clock ticks
func Duration(seconds float64) int64 {
	return int64(math.Round(seconds * Master))
}
