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

// Package ieee488 implements the signal layer of the IEEE-488 instrumentation
// bus, as used by the Commodore PET and its disk drives.
//
// The bus has eight named control lines and an eight bit data byte. The lines
// and the data are open-collector so the value visible on the bus is the
// logical AND of what every attached device is driving. A device that does
// nothing with a line leaves it released (true) and the data byte at 0xff.
//
// Devices are attached in a fixed order before the bus is started. Whenever
// the combined value of a line changes every device is told about it, in
// attachment order, including the device that caused the change. Devices may
// drive the bus from inside a notification.
//
// The talker/listener protocol is not implemented. The Handshake() function
// and Handshaker type implement only the NRFD/NDAC acknowledgement logic that
// a drive's interface hardware performs in response to ATN.
package ieee488
