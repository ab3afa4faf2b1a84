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

// Package preferences holds the stored preferences for the machine. The
// device list is stored as a single string of the form:
//
//	host:HOST, drive8:8050@8, drive9:2040@9
//
// Each entry is a tag, a model name from the peripherals catalog and, for
// drives, a bus address. The address can be omitted in which case the
// lowest drive address is used.
package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/prefs"
	"github.com/jetsetilly/gopher2040/resources"
)

// InvalidDevice is returned by ParseDevices for an entry that cannot be
// understood
const InvalidDevice = "preferences: invalid device (%s)"

// DefaultDevices is the device list used when there is no preferences file
const DefaultDevices = "host:HOST, drive8:2040@8"

// the address used when a device entry has none
const defaultAddress = 8

// DeviceConfig describes one device on the bus
type DeviceConfig struct {
	Tag     string
	Model   string
	Address int
}

func (cfg DeviceConfig) String() string {
	if cfg.Address == 0 {
		return fmt.Sprintf("%s:%s", cfg.Tag, cfg.Model)
	}
	return fmt.Sprintf("%s:%s@%d", cfg.Tag, cfg.Model, cfg.Address)
}

// ParseDevices splits a device list into device configurations. The model
// name is not checked against the catalog
func ParseDevices(s string) ([]DeviceConfig, error) {
	var cfgs []DeviceConfig

	for _, e := range strings.Split(s, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}

		tag, model, ok := strings.Cut(e, ":")
		tag = strings.TrimSpace(tag)
		model = strings.TrimSpace(model)
		if !ok || tag == "" || model == "" {
			return nil, curated.Errorf(InvalidDevice, e)
		}

		cfg := DeviceConfig{Tag: tag, Model: model}

		if m, a, ok := strings.Cut(model, "@"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil {
				return nil, curated.Errorf(InvalidDevice, e)
			}
			cfg.Model = strings.TrimSpace(m)
			cfg.Address = n
		} else if !strings.EqualFold(model, "HOST") {
			cfg.Address = defaultAddress
		}

		cfgs = append(cfgs, cfg)
	}

	return cfgs, nil
}

// Preferences defines and collates all the preference values used by the
// machine
type Preferences struct {
	dsk *prefs.Disk

	// the devices attached to the bus
	Devices prefs.String

	// the number of milliseconds of emulated time the RUN mode covers
	Duration prefs.Int

	// echo log entries to the terminal as they are created
	LogEcho prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. The preferences file is in the resource directory
func NewPreferences() (*Preferences, error) {
	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is like NewPreferences but with an explicit path
// for the preferences file. A missing file is not an error
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.Devices.SetHookPre(func(v prefs.Value) error {
		_, err := ParseDevices(v.(string))
		return err
	})
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.devices", &p.Devices)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.duration", &p.Duration)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("logger.echo", &p.LogEcho)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(false)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all settings to default values
func (p *Preferences) SetDefaults() {
	_ = p.Devices.Set(DefaultDevices)
	_ = p.Duration.Set(1000)
	_ = p.LogEcho.Set(false)
}

// DeviceConfigs parses the Devices preference
func (p *Preferences) DeviceConfigs() ([]DeviceConfig, error) {
	return ParseDevices(p.Devices.String())
}

// Reset all machine preferences to the default values
func (p *Preferences) Reset() error {
	if err := p.dsk.Reset(); err != nil {
		return err
	}
	p.SetDefaults()
	return nil
}

// Load current machine preferences from disk
func (p *Preferences) Load() error {
	err := p.dsk.Load(false)
	if curated.Is(err, prefs.NoPrefsFile) {
		return nil
	}
	return err
}

// Save current machine preferences to disk
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
