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

package machine

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/peripherals"
	"github.com/jetsetilly/gopher2040/hardware/peripherals/drive"
	"github.com/jetsetilly/gopher2040/hardware/peripherals/host"
	"github.com/jetsetilly/gopher2040/hardware/preferences"
	"github.com/jetsetilly/gopher2040/hardware/riot"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
)

// Error patterns
const (
	NoDevices        = "machine: no devices configured"
	DuplicateAddress = "machine: duplicate address (%d)"
	UnknownDevice    = "machine: unknown device (%s)"
	NotStarted       = "machine: not started"
)

// Quantum is the amount of logical time between calls to the continue check
// function of Run(). It is one bit cell at the slowest density
var Quantum = scheduler.Time(clocks.BitPeriod(0))

// PerformanceBrake is the number of quanta between calls to the continue
// check function
const PerformanceBrake = 100

// Machine is the main container for the emulated components
type Machine struct {
	Scheduler *scheduler.Scheduler
	Bus       *ieee488.Bus
	Arena     riot.Arena

	// every device in the order in which they were attached
	Peripherals []peripherals.Peripheral

	// the first host in the list of devices. can be nil
	Host *host.Host

	// drives in the order in which they were attached
	Drives []*drive.Drive
}

// NewMachineFromPreferences creates a machine using the device list in the
// preferences
func NewMachineFromPreferences(p *preferences.Preferences) (*Machine, error) {
	cfgs, err := p.DeviceConfigs()
	if err != nil {
		return nil, curated.Errorf("machine: %v", err)
	}
	return NewMachine(cfgs)
}

// NewMachine creates a new machine with the devices in the list attached to
// the bus. The machine is not started
func NewMachine(cfgs []preferences.DeviceConfig) (*Machine, error) {
	if len(cfgs) == 0 {
		return nil, curated.Errorf(NoDevices)
	}

	// check everything that can be checked before building anything
	if len(cfgs) > ieee488.MaxDevices {
		return nil, curated.Errorf("machine: %v", curated.Errorf(ieee488.TooManyDevices, ieee488.MaxDevices))
	}

	models := make([]peripherals.Model, len(cfgs))
	tags := make(map[string]bool)
	addresses := make(map[int]bool)

	for i, cfg := range cfgs {
		m, err := peripherals.Lookup(cfg.Model)
		if err != nil {
			return nil, curated.Errorf("machine: %v", err)
		}
		models[i] = m

		if tags[cfg.Tag] {
			return nil, curated.Errorf("machine: %v", curated.Errorf(ieee488.DuplicateDevice, cfg.Tag))
		}
		tags[cfg.Tag] = true

		if m.Kind != peripherals.KindDrive {
			continue
		}
		if cfg.Address < drive.MinAddress || cfg.Address > drive.MaxAddress {
			return nil, curated.Errorf("machine: %v", curated.Errorf(drive.InvalidAddress, cfg.Address))
		}
		if addresses[cfg.Address] {
			return nil, curated.Errorf(DuplicateAddress, cfg.Address)
		}
		addresses[cfg.Address] = true
	}

	mc := &Machine{
		Scheduler: scheduler.NewScheduler(),
		Bus:       ieee488.NewBus(),
	}

	for i, cfg := range cfgs {
		switch models[i].Kind {
		case peripherals.KindHost:
			h := host.NewHost(cfg.Tag, mc.Bus)
			if err := mc.Bus.Attach(h); err != nil {
				return nil, curated.Errorf("machine: %v", err)
			}
			if mc.Host == nil {
				mc.Host = h
			}
			mc.Peripherals = append(mc.Peripherals, h)

		case peripherals.KindDrive:
			d, err := drive.NewDrive(cfg.Tag, models[i], cfg.Address, mc.Bus, mc.Scheduler, &mc.Arena)
			if err != nil {
				return nil, curated.Errorf("machine: %v", err)
			}
			mc.Drives = append(mc.Drives, d)
			mc.Peripherals = append(mc.Peripherals, d)
		}
	}

	return mc, nil
}

func (mc *Machine) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("t=%d %s\n", mc.Scheduler.Now(), mc.Bus.Lines()))
	for _, p := range mc.Peripherals {
		s.WriteString(p.String())
		s.WriteRune('\n')
	}
	return s.String()
}

// Start the machine. No more devices can be attached
func (mc *Machine) Start() {
	mc.Bus.Start()
}

// Started returns true if Start() has been called
func (mc *Machine) Started() bool {
	return mc.Bus.Started()
}

// Reset every device on the bus
func (mc *Machine) Reset() {
	mc.Bus.Reset()
}

// Peripheral returns the device with the tag
func (mc *Machine) Peripheral(tag string) (peripherals.Peripheral, error) {
	for _, p := range mc.Peripherals {
		if p.Tag() == tag {
			return p, nil
		}
	}
	return nil, curated.Errorf(UnknownDevice, tag)
}

// Drive returns the drive with the tag
func (mc *Machine) Drive(tag string) (*drive.Drive, error) {
	for _, d := range mc.Drives {
		if d.Tag() == tag {
			return d, nil
		}
	}
	return nil, curated.Errorf(UnknownDevice, tag)
}

// Run the machine for the duration. The continueCheck function is called
// periodically and the run ends early if it returns false or an error. The
// continueCheck function can be nil
func (mc *Machine) Run(duration scheduler.Time, continueCheck func() (bool, error)) error {
	if !mc.Started() {
		return curated.Errorf(NotStarted)
	}

	if continueCheck == nil {
		mc.Scheduler.Advance(duration)
		return nil
	}

	target := mc.Scheduler.Now() + duration
	brake := 0

	for mc.Scheduler.Now() < target {
		mc.Scheduler.RunUntil(min(mc.Scheduler.Now()+Quantum, target))

		brake++
		if brake >= PerformanceBrake {
			brake = 0
			ok, err := continueCheck()
			if err != nil {
				return curated.Errorf("machine: %v", err)
			}
			if !ok {
				return nil
			}
		}
	}

	return nil
}

// State is a copy of the machine
type State struct {
	Time   scheduler.Time
	Bus    ieee488.State
	Drives []drive.State
}

// Snapshot returns a copy of every part of the machine that changes
func (mc *Machine) Snapshot() *State {
	s := &State{
		Time: mc.Scheduler.Now(),
		Bus:  mc.Bus.Snapshot(),
	}
	for _, d := range mc.Drives {
		s.Drives = append(s.Drives, d.Snapshot())
	}
	return s
}
