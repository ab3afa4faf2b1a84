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

// Package probe records the signal seen by the read/write head of a drive
// unit and writes it to disk as a WAV file. One sample is written for every
// bit cell so that the file can be inspected with any audio editor. Note
// that the signal is buffered in memory in its entirety and only written to
// disk when Write() is called.
package probe

import (
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/logger"
)

// AllUnits can be used as the unit argument to NewProbe()
const AllUnits = -1

// sample values for the two levels of the head signal
const (
	high     = 16384
	low      = -16384
	bitDepth = 16
)

// the WAVE_FORMAT_PCM format tag
const pcmFormat = 1

// NotAWav is returned by Decode() when the data cannot be decoded
const NotAWav = "probe: not a valid wav file"

// Probe implements the fdc.BitObserver interface
type Probe struct {
	filename string
	unit     int
	rate     int
	buffer   []int
}

// NewProbe is the preferred method of initialisation for the Probe type. Only
// bits for the unit are recorded. The sample rate of the file is the bit rate
// for the density
func NewProbe(filename string, unit int, density uint8) *Probe {
	return &Probe{
		filename: filename,
		unit:     unit,
		rate:     int(clocks.BitRate(density)),
		buffer:   make([]int, 0),
	}
}

// ObserveBit implements the fdc.BitObserver interface
func (p *Probe) ObserveBit(unit int, bit uint8) {
	if p.unit != AllUnits && unit != p.unit {
		return
	}
	if bit == 0 {
		p.buffer = append(p.buffer, low)
	} else {
		p.buffer = append(p.buffer, high)
	}
}

// Len returns the number of bits recorded
func (p *Probe) Len() int {
	return len(p.buffer)
}

// Write the recorded signal to the file given to NewProbe()
func (p *Probe) Write() (rerr error) {
	f, err := os.Create(p.filename)
	if err != nil {
		return curated.Errorf("probe: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("probe: %v", err)
		}
	}()

	logger.Logf(logger.Allow, "probe", "writing %d bits to %s", len(p.buffer), p.filename)

	return p.encode(f)
}

func (p *Probe) encode(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, p.rate, bitDepth, 1, pcmFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  p.rate,
		},
		Data:           p.buffer,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("probe: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("probe: %v", err)
	}
	return nil
}

// Decode a WAV file created by Probe back into bits. The sample rate of the
// file is also returned
func Decode(r io.ReadSeeker) ([]uint8, int, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, 0, curated.Errorf(NotAWav)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, curated.Errorf("probe: %v", err)
	}

	chans := int(dec.NumChans)
	bits := make([]uint8, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		if buf.Data[i] > 0 {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}

	return bits, int(dec.SampleRate), nil
}
