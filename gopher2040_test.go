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

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopher2040/test"
)

func TestRunMode(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	dot := filepath.Join(dir, "machine.dot")
	wav := filepath.Join(dir, "head.wav")

	out := &strings.Builder{}
	v := launch(context.Background(), []string{"RUN", "-model", "8050", "-duration", "2", "-format", "-dot", dot, "-wav", wav}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "drive8: 8050 at 8"), out.String())
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "t=32000 "), out.String())

	for _, fn := range []string{dot, wav} {
		st, err := os.Stat(fn)
		test.DemandSuccess(t, err)
		test.ExpectSuccess(t, st.Size() > 0, fn)
	}
}

func TestRunDigest(t *testing.T) {
	t.Chdir(t.TempDir())

	run := func() string {
		out := &strings.Builder{}
		v := launch(context.Background(), []string{"RUN", "-devices", "host:HOST, drive8:4040@8, drive9:8250@9", "-duration", "1", "-digest"}, out)
		test.ExpectEquality(t, v, exitOK)
		_, after, ok := strings.Cut(out.String(), "digest ")
		test.DemandSuccess(t, ok, out.String())
		return after
	}

	test.ExpectEquality(t, run(), run())
}

func TestRunModeErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	out := &strings.Builder{}
	v := launch(context.Background(), []string{"RUN", "-model", "1541"}, out)
	test.ExpectEquality(t, v, exitModeError)
	test.ExpectSuccess(t, strings.Contains(out.String(), "unknown model (1541)"), out.String())

	out.Reset()
	v = launch(context.Background(), []string{"RUN", "-nosuchflag"}, out)
	test.ExpectEquality(t, v, exitModeError)
}

func TestScriptMode(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	fn := filepath.Join(dir, "test.lua")
	src := `
		gpib.assert("ATN")
		gpib.expect(not gpib.line("NRFD"))
		print(gpib.notes())
	`
	test.DemandSuccess(t, os.WriteFile(fn, []byte(src), 0o600))

	out := &strings.Builder{}
	v := launch(context.Background(), []string{"SCRIPT", "-devices", "host:HOST, drive9:4040@9", fn}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectEquality(t, out.String(), "ATN asserted, NRFD asserted, NDAC asserted\n")

	out.Reset()
	v = launch(context.Background(), []string{"SCRIPT"}, out)
	test.ExpectEquality(t, v, exitModeError)
}

func TestPrefsMode(t *testing.T) {
	t.Chdir(t.TempDir())

	out := &strings.Builder{}
	v := launch(context.Background(), []string{"PREFS", "-devices", "host:HOST, drive10:8250@10"}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "machine.devices :: host:HOST, drive10:8250@10"), out.String())

	// the saved device list is used by RUN
	out.Reset()
	v = launch(context.Background(), []string{"RUN", "-duration", "0"}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "drive10: 8250 at 10"), out.String())

	// and can be overridden for a single session
	out.Reset()
	v = launch(context.Background(), []string{"RUN", "-duration", "0", "-prefs", "machine.devices::host:HOST"}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectFailure(t, strings.Contains(out.String(), "drive10"), out.String())

	out.Reset()
	v = launch(context.Background(), []string{"PREFS", "-reset"}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "machine.devices :: host:HOST, drive8:2040@8"), out.String())
}

func TestModeHelp(t *testing.T) {
	t.Chdir(t.TempDir())

	out := &strings.Builder{}
	v := launch(context.Background(), []string{"-help"}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "available sub-modes: RUN, SCRIPT, MONITOR, PREFS"), out.String())

	out.Reset()
	v = launch(context.Background(), []string{"PREFS", "-help"}, out)
	test.ExpectEquality(t, v, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "host:HOST, drive8:8050@8"), out.String())
}
