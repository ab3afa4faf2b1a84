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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. Packages that raise errors worth testing for export the
// pattern as a constant. For example, the ieee488 package:
//
//	const TooManyDevices = "ieee488: too many devices on bus (max %d)"
//
//	if curated.Is(err, ieee488.TooManyDevices) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	e := curated.Errorf(ieee488.DuplicateDevice, "UE1")
//	f := curated.Errorf("machine: %v", e)
//
//	curated.Has(f, ieee488.DuplicateDevice) // true
//	curated.Is(f, ieee488.DuplicateDevice)  // false
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). We can think of the difference as being 'expected' and
// 'unexpected' errors.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. For the purposes of this package we think of
// chains as being composed of parts separated by the sub-string ': ' as
// suggested on p239 of "The Go Programming Language" (Donovan, Kernighan).
// For example:
//
//	machine: machine: bus has been started
//
// is normalised to:
//
//	machine: bus has been started
package curated
