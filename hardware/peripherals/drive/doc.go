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

// Package drive implements the logic board of the 2040 family of disk drives
// as a device on the IEEE-488 bus.
//
// The board has two processors, neither of which is emulated. The DOS
// processor services the bus through two 6532 RIOT chips (UC1 and UE1). The
// FDC processor controls the mechanism through a 6530 MIOT (UK3) and the
// floppy disk controller. The processors reach the chips with the Chip()
// function and are told about their interrupt inputs through the
// peripherals.Processor interface.
//
// The chips are wired as follows:
//
//	UC1 PA  in   bus data
//	UC1 PB  out  bus data
//
//	UE1 PA  in   bit 5 EOI, bit 6 DAV, bit 7 !ATN (also the PA7 edge detect)
//	        out  bit 0 ATNA, bit 1 DACO, bit 2 RFDO, bit 3 EOI, bit 4 DAV
//	UE1 PB  in   bits 0-2 device number, bit 6 NDAC, bit 7 NRFD
//	        out  bits 3-5 activity and error LEDs
//
//	UK3 PA  out  PI (data to be written to disk)
//	UK3 PB  in   bit 3 write protect, bit 6 single sided
//	        out  bit 0 drive select, bits 1-2 density, bit 4 side select (inverted)
//
// NRFD and NDAC are not driven directly. They are derived from ATNA, RFDO
// and DACO and the state of the ATN line (see ieee488.Handshake()). A change
// to ATN recomputes them immediately. Asserting IFC resets the board.
package drive
