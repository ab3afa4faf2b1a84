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

// Package peripherals defines the devices that can be attached to the
// IEEE-488 bus and the catalog of models that the machine builder can
// create.
//
// The implementations are in sub-packages. The host package is a stub
// standing in for the computer at the other end of the bus. The drive package
// is the disk drive board of the 2040 family.
package peripherals

import (
	"slices"
	"strings"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/ieee488"
)

// Kind of peripheral
type Kind int

// List of valid Kind values
const (
	KindHost Kind = iota
	KindDrive
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindDrive:
		return "drive"
	}
	return "unknown"
}

// Peripheral is implemented by every device in this package's sub-packages
type Peripheral interface {
	ieee488.Device
	ieee488.Resetter
	Kind() Kind
	String() string
}

// Processor is implemented by the processor that services a drive's chips.
// The processors are external to the emulation so this is how they are told
// about the signals connected to their input pins
type Processor interface {
	// IRQ is the state of the interrupt request pin
	IRQ(asserted bool)

	// Overflow is the state of the set overflow pin
	Overflow(asserted bool)
}

// Model describes a peripheral that can be created by the machine builder
type Model struct {
	Name string
	Kind Kind

	// the following fields are only used by drives
	Stepper  floppy.Stepper
	Units    int
	Geometry floppy.Geometry
}

// UnknownModel is returned by Lookup() when the model is not in the catalog
const UnknownModel = "peripherals: unknown model (%s)"

var catalog = []Model{
	{Name: "HOST", Kind: KindHost},
	{Name: "2040", Kind: KindDrive, Stepper: floppy.StepperA, Units: 2, Geometry: floppy.Geometry2040},
	{Name: "3040", Kind: KindDrive, Stepper: floppy.StepperA, Units: 2, Geometry: floppy.Geometry4040},
	{Name: "4040", Kind: KindDrive, Stepper: floppy.StepperA, Units: 2, Geometry: floppy.Geometry4040},
	{Name: "8050", Kind: KindDrive, Stepper: floppy.StepperB, Units: 2, Geometry: floppy.Geometry8050},
	{Name: "8250", Kind: KindDrive, Stepper: floppy.StepperB, Units: 2, Geometry: floppy.Geometry8250},
	{Name: "SFD1001", Kind: KindDrive, Stepper: floppy.StepperB, Units: 1, Geometry: floppy.Geometry8250},
}

// Lookup a model by name. Names are not case sensitive
func Lookup(name string) (Model, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, m := range catalog {
		if m.Name == name {
			return m, nil
		}
	}
	return Model{}, curated.Errorf(UnknownModel, name)
}

// Models returns the names of every model in the catalog
func Models() []string {
	n := make([]string, 0, len(catalog))
	for _, m := range catalog {
		n = append(n, m.Name)
	}
	slices.Sort(n)
	return n
}

// Drives returns the names of the models that are drives
func Drives() []string {
	var n []string
	for _, m := range catalog {
		if m.Kind == KindDrive {
			n = append(n, m.Name)
		}
	}
	return n
}
