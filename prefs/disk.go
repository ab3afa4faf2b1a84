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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/jetsetilly/gopher2040/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is inserted at the beginning of a preferences file
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// keySep separates the key from the value in the preferences file
const keySep = " :: "

// Sentinal error patterns
const (
	NoPrefsFile  = "prefs: no prefs file (%v)"
	IllegalKey   = "prefs: illegal character [%c] in key [%s]"
	InvalidPrefs = "prefs: not a valid prefs file (%s)"
)

// Disk represents preference values as stored on disk
type Disk struct {
	path    string
	entries map[string]pref
}

func (dsk Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.entries[k]))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type
func NewDisk(path string) (*Disk, error) {
	dsk := &Disk{
		path:    path,
		entries: make(map[string]pref),
	}
	return dsk, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the preference value in the file. Keys are made
// up of letters, digits and the period character
func (dsk *Disk) Add(key string, p pref) error {
	for _, r := range key {
		if !(r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return curated.Errorf(IllegalKey, r, key)
		}
	}
	dsk.entries[key] = p
	return nil
}

// Save current preference values to disk. Values in the file that do not
// belong to this Disk instance are preserved
func (dsk *Disk) Save() (rerr error) {
	// load entire file. entries in the file that are not in the entries map
	// are written back to disk unchanged
	entries := make(map[string]string)

	err := load(dsk.path, func(k, v string) {
		entries[k] = v
	})
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	for k, v := range dsk.entries {
		entries[k] = v.String()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			rerr = curated.Errorf("prefs: %v", err)
		}
	}()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, keySep, entries[k])
	}

	if err := w.Flush(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Load preference values from disk. If saveOnFail is true and the prefs file
// does not exist then the current values are saved to a new file. A missing
// file is still reported as a NoPrefsFile error.
//
// Values in the current command line group (see PushCommandLineStack()) are
// applied after the values on disk
func (dsk *Disk) Load(saveOnFail bool) error {
	var setErr error

	err := load(dsk.path, func(k, v string) {
		if p, ok := dsk.entries[k]; ok && setErr == nil {
			if err := p.Set(v); err != nil {
				setErr = curated.Errorf("prefs: %v", err)
			}
		}
	})
	if err != nil {
		if !curated.Is(err, NoPrefsFile) {
			return err
		}
		if saveOnFail {
			if err := dsk.Save(); err != nil {
				return err
			}
		}
	}
	if setErr != nil {
		return setErr
	}

	// values on the command line take priority over values on disk
	for k, p := range dsk.entries {
		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf("prefs: %v", err)
			}
		}
	}

	return err
}

// load reads the prefs file and calls the supplied function for every
// key/value pair found
func load(path string, f func(k, v string)) error {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return curated.Errorf(NoPrefsFile, path)
		}
		return curated.Errorf("prefs: %v", err)
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)

	// the first line must be the boiler plate
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return curated.Errorf("prefs: %v", err)
		}
		return curated.Errorf(InvalidPrefs, path)
	}
	if scanner.Text() != WarningBoilerPlate {
		return curated.Errorf(InvalidPrefs, path)
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), keySep)
		if !ok {
			continue
		}
		f(k, v)
	}

	if err := scanner.Err(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Reset all entries to their default values. The new values are not saved
func (dsk *Disk) Reset() error {
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf("prefs: %v", err)
		}
	}
	return nil
}
