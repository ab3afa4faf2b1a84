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

// Package floppy implements the mechanical part of a disk drive: the stepper
// motor that positions the head, the spindle motor and the track buffer that
// passes under the read/write head.
//
// The disk itself is provided by an implementation of the Media interface.
// MemoryMedia is an in-memory implementation and Format() creates the raw GCR
// tracks of a newly formatted disk for it.
//
// A Unit is owned by the floppy disk controller (the fdc package). The
// controller takes bits from the unit with NextBit() and writes bits with
// WriteBit().
package floppy
