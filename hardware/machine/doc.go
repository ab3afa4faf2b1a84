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

// Package machine builds a complete system out of a list of device
// configurations: the scheduler, the IEEE-488 bus, the arena of timer/port
// chips and every peripheral.
//
// Building the machine either succeeds completely or fails before anything
// has been attached to the bus. Once built the machine must be started
// before it can be run. Starting the machine locks the bus so that no more
// devices can be attached.
//
//	m, err := machine.NewMachine(cfgs)
//	if err != nil {
//		return err
//	}
//	m.Start()
//	err = m.Run(scheduler.Time(clocks.Duration(0.5)), nil)
//
// The peripherals are driven by the external processor emulations through
// the register ports of their chips. Without a processor the machine still
// runs: timers count and the bit clocks of the controllers shift data from
// the spinning disks.
package machine
