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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes (and sub-modes) and allows different flags
// for each mode.
//
// Arguments are given to NewArgs() and then Parse() is called with no
// arguments. The gopher2040 command line, for example, begins like this:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("SCRIPT", "MONITOR", "PREFS")
//	md.AddDefaultSubMode("RUN")
//	p, err := md.Parse()
//
// The first sub-mode is the default and is selected when no sub-mode is
// given on the command line. Sub-mode comparisons are case insensitive.
//
// Parse() returns ParseContinue, ParseHelp or ParseError. ParseHelp means a
// help message has been printed to Output and the program should stop.
//
// Each mode then calls NewMode(), adds its own flags and parses again. The
// arguments that follow the flags are available with RemainingArgs() and
// GetArg():
//
//	switch md.Mode() {
//	case "SCRIPT":
//		md.NewMode()
//		logging := md.AddBool("log", false, "echo log to output")
//		md.AdditionalHelp("The script is a Lua file.")
//		p, err := md.Parse()
//		if err != nil || p != modalflag.ParseContinue {
//			return err
//		}
//		if len(md.RemainingArgs()) != 1 {
//			return fmt.Errorf("one script file required for %s mode", md)
//		}
//		runScript(md.GetArg(0), *logging)
//	}
//
// Modes can be nested as deeply as required. Path() (and String()) returns the
// modes selected so far, separated by a slash.
package modalflag
