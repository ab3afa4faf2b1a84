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

// Package fdc implements the floppy disk controller of the drive family. The
// controller owns one or two floppy.Unit instances and runs the bit clock
// that moves data between the read/write head and the processor.
//
// Every period of the bit clock one bit is taken from the selected unit and
// shifted into a 16 bit recovery register. The low ten bits of the register,
// together with the read/write select line, address the GCR table (see the
// gcr package). Ten bits of all ones is a sync mark and resets the bit
// counter. Otherwise, every ten bits the decoded byte is latched and the
// byte ready signal is raised.
//
// When writing, the byte to be written (the PI lines) is encoded by the GCR
// table every ten bits and shifted out to the head one bit per period.
//
// The processor reaches the controller through a register window:
//
//	offset  read                                write
//	0       latched GCR data                    PI data
//	1       stepper/motor latch, bit 7 !SYNC    stepper phases, MTR1 (bit 4) MTR0 (bit 5)
//	2       mode and read/write select          bit 0 mode select, bit 1 read/write select
//	3       status: !byte ready, !error, WPS    clears byte ready
//
// Reading the data register clears byte ready.
package fdc
