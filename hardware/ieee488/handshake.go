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

package ieee488

// Handshake returns the value of the NRFD and NDAC lines that the interface
// logic of a drive drives onto the bus. The atn argument is the combined
// value of the ATN line. The other arguments are the drive's own attention
// acknowledge, ready for data and data accepted outputs
//
// When ATN is asserted and has not been acknowledged, both lines are pulled
// low regardless of the other inputs
func Handshake(atn, atna, rfdo, daco bool) (nrfd bool, ndac bool) {
	nrfd = !((!(atn && atna) && rfdo) || !(atn || atna))
	ndac = !(daco || !(atn || atna))
	return nrfd, ndac
}

// Handshaker holds the handshake outputs of a single device and republishes
// NRFD and NDAC to the bus whenever they or the ATN line change
type Handshaker struct {
	bus *Bus
	dev Device

	atna bool
	rfdo bool
	daco bool
}

// NewHandshaker is the preferred method of initialisation for the Handshaker
// type. Nothing is driven onto the bus until Set() or Update() is called
func NewHandshaker(bus *Bus, dev Device) *Handshaker {
	return &Handshaker{
		bus: bus,
		dev: dev,
	}
}

// Set the handshake outputs of the device and publish the result to the bus
func (h *Handshaker) Set(atna, rfdo, daco bool) error {
	h.atna = atna
	h.rfdo = rfdo
	h.daco = daco
	return h.Update()
}

// Update recomputes NRFD and NDAC from the current value of ATN and
// publishes them. Should be called whenever ATN changes
func (h *Handshaker) Update() error {
	nrfd, ndac := Handshake(h.bus.Line(ATN), h.atna, h.rfdo, h.daco)
	if err := h.bus.SetLine(h.dev, NRFD, nrfd); err != nil {
		return err
	}
	return h.bus.SetLine(h.dev, NDAC, ndac)
}

// Outputs returns the most recent values passed to Set()
func (h *Handshaker) Outputs() (atna, rfdo, daco bool) {
	return h.atna, h.rfdo, h.daco
}
