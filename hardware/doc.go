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

// Package hardware is the base package for the drive emulation. It and its
// sub-packages contain everything required for a headless emulation of a
// Commodore IEEE-488 bus with a host controller and any number of disk
// drives attached.
//
// The Machine type in the machine sub-package is the root of the emulation
// and contains external references to the scheduler, the bus and the
// peripherals. All time is measured in ticks of the 16MHz master clock and
// is advanced by the scheduler.
//
// A drive is made up of two RIOT chips (UE1 and UC1), a MIOT chip (UK3), a
// floppy disk controller and one or two floppy units. The RIOT chips and the
// floppy disk controller present registers to the processor through the
// interfaces in the memory/bus package. The processors themselves are not
// part of the emulation.
package hardware
