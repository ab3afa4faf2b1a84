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

// Package riot represents the active part of the 6532 RIOT and the 6530 MIOT.
// It does not handle the RAM or ROM parts of those chips. The processor that
// would normally access the chip is external to the emulation and it reaches
// the registers through the bus.RegisterPort interface.
//
// The active parts of the RIOT are:
//
//	Timer
//	I/O system
//
// The timer can be found in the timer package, whereas the I/O system can be
// found in the ports package.
//
// The register map repeats every 32 addresses. Address lines A0 to A4 decode
// as follows:
//
//	A4 A2 A0
//	 x  0  x   port data or DDR. A1 selects the port and A0 the DDR
//	 x  1  0   read timer, A3 sets the timer IRQ enable
//	 1  1  x   write timer, A0 A1 select the interval and A3 the IRQ enable
//	 0  1  x   write edge control. A0 selects the positive edge, A1 the IRQ enable
//	 x  1  1   read interrupt flags
//
// The MIOT has no PA7 edge detection. When PB7 of the MIOT is an input it
// acts as the (active low) interrupt output.
//
// Chips are usually kept in an Arena, which hands out a Handle for each chip.
package riot
