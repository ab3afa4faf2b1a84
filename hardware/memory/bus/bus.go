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

// Package bus defines the register bus concept. The processors of a
// peripheral are external to the emulation and they talk to the chips only
// through the interfaces defined here.
package bus

// RegisterPort defines the operations for a chip when accessed by the
// processor. Offsets are chip specific and small. Chips mirror their
// registers so any offset is valid. Reads and writes may have side effects
type RegisterPort interface {
	ReadRegister(offset uint8) uint8
	WriteRegister(offset uint8, data uint8)
}

// DebuggerBus defines the meta-operations for chip registers. Think of these
// functions as "debugging" functions, that is operations outside of the normal
// operation of the machine. A peek never has a side effect
type DebuggerBus interface {
	PeekRegister(offset uint8) uint8
}

// Chip is a register port that can also be peeked
type Chip interface {
	RegisterPort
	DebuggerBus
	Tag() string
}
