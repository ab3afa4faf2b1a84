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

// Package monitor is an interactive terminal front end for a machine. It
// accepts simple commands that control the host stub on the bus, advance
// time and read or write the registers of the chips in the drives.
//
// When the input is a terminal the monitor puts it into cbreak mode and
// provides line editing with a command history. Otherwise commands are read
// one line at a time, which makes it possible to pipe a list of commands
// into the monitor.
package monitor
