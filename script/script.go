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

// Package script runs Lua scenario scripts against a machine. The script
// controls the host stub on the bus and has direct access to the register
// ports of every chip in every drive.
//
// The following functions are available to scripts in the gpib table:
//
//	assert(line)               pull a bus line low
//	release(line)              let a bus line go high
//	pulse(line)                assert and then release a line
//	line(line)                 the value of a line. true is released
//	put(byte)                  drive a byte onto the data lines
//	data()                     the byte on the data lines
//	run(ticks)                 advance the machine by master clock ticks
//	run_ms(milliseconds)       advance the machine by milliseconds
//	now()                      the current time in master clock ticks
//	notes()                    the notifications received by the host
//	clear()                    forget the notifications
//	read(drive, chip, reg)     read a chip register
//	write(drive, chip, reg, v) write a chip register
//	peek(drive, chip, reg)     read a chip register without side effects
//	format(drive, unit, id)    insert a newly formatted disk
//	expect(cond, message)      stop the script with an error if cond is false
//	log(message)               add an entry to the log
//	print(...)                 write to the script output
package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/machine"
	"github.com/jetsetilly/gopher2040/hardware/memory/bus"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
	lua "github.com/yuin/gopher-lua"
)

// Error patterns
const (
	NoHost       = "script: machine has no host"
	ExpectFailed = "script: expectation failed (%s)"
	ScriptError  = "script: %v"
)

const (
	logTag         = "script"
	tableName      = "gpib"
	expectFailMark = "expectation failed: "
)

// Script is a Lua interpreter connected to a machine
type Script struct {
	mc  *machine.Machine
	out io.Writer
	L   *lua.LState
}

// NewScript is the preferred method of initialisation for the Script type.
// The machine must have a host. Output from the print function is sent to
// out
func NewScript(mc *machine.Machine, out io.Writer) (*Script, error) {
	if mc.Host == nil {
		return nil, curated.Errorf(NoHost)
	}

	s := &Script{
		mc:  mc,
		out: out,
		L:   lua.NewState(),
	}

	tbl := s.L.NewTable()
	s.L.SetFuncs(tbl, map[string]lua.LGFunction{
		"assert":  s.assert,
		"release": s.release,
		"pulse":   s.pulse,
		"line":    s.line,
		"put":     s.put,
		"data":    s.data,
		"run":     s.run,
		"run_ms":  s.runMS,
		"now":     s.now,
		"notes":   s.notes,
		"clear":   s.clear,
		"read":    s.read,
		"write":   s.write,
		"peek":    s.peek,
		"format":  s.format,
		"expect":  s.expect,
		"log":     s.log,
	})
	s.L.SetGlobal(tableName, tbl)
	s.L.SetGlobal("print", s.L.NewFunction(s.print))

	return s, nil
}

// Close the interpreter
func (s *Script) Close() {
	s.L.Close()
}

// Run the Lua source. The script stops early if the context is cancelled
func (s *Script) Run(ctx context.Context, src string) error {
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	return s.wrap(s.L.DoString(src))
}

// RunFile runs the Lua file at path
func (s *Script) RunFile(ctx context.Context, path string) error {
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	return s.wrap(s.L.DoFile(path))
}

// failures of the expect function are turned back into a curated error
func (s *Script) wrap(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*lua.ApiError); ok {
		msg := e.Object.String()
		if _, m, ok := strings.Cut(msg, expectFailMark); ok {
			return curated.Errorf(ExpectFailed, m)
		}
	}
	return curated.Errorf(ScriptError, err)
}

func (s *Script) checkLine(n int) ieee488.Line {
	name := s.L.CheckString(n)
	l, ok := ieee488.LineFromString(name)
	if !ok {
		s.L.ArgError(n, fmt.Sprintf("unknown bus line (%s)", name))
	}
	return l
}

func (s *Script) checkChip(n int) bus.Chip {
	d, err := s.mc.Drive(s.L.CheckString(n))
	if err != nil {
		s.L.RaiseError("%v", err)
	}
	c, err := d.Chip(s.L.CheckString(n + 1))
	if err != nil {
		s.L.RaiseError("%v", err)
	}
	return c
}

func (s *Script) checkByte(n int) uint8 {
	v := s.L.CheckInt(n)
	if v < 0 || v > 0xff {
		s.L.ArgError(n, fmt.Sprintf("value out of range (%d)", v))
	}
	return uint8(v)
}

func (s *Script) raise(err error) {
	if err != nil {
		s.L.RaiseError("%v", err)
	}
}

func (s *Script) assert(L *lua.LState) int {
	s.raise(s.mc.Host.Assert(s.checkLine(1)))
	return 0
}

func (s *Script) release(L *lua.LState) int {
	s.raise(s.mc.Host.Release(s.checkLine(1)))
	return 0
}

func (s *Script) pulse(L *lua.LState) int {
	s.raise(s.mc.Host.Pulse(s.checkLine(1)))
	return 0
}

func (s *Script) line(L *lua.LState) int {
	L.Push(lua.LBool(s.mc.Bus.Line(s.checkLine(1))))
	return 1
}

func (s *Script) put(L *lua.LState) int {
	s.raise(s.mc.Host.PutData(s.checkByte(1)))
	return 0
}

func (s *Script) data(L *lua.LState) int {
	L.Push(lua.LNumber(s.mc.Bus.Data()))
	return 1
}

func (s *Script) run(L *lua.LState) int {
	s.raise(s.mc.Run(scheduler.Time(L.CheckInt64(1)), s.continueCheck))
	return 0
}

func (s *Script) runMS(L *lua.LState) int {
	d := clocks.Duration(float64(L.CheckNumber(1)) / 1000)
	s.raise(s.mc.Run(scheduler.Time(d), s.continueCheck))
	return 0
}

// long runs stop if the script context is cancelled
func (s *Script) continueCheck() (bool, error) {
	ctx := s.L.Context()
	if ctx == nil {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Script) now(L *lua.LState) int {
	L.Push(lua.LNumber(s.mc.Scheduler.Now()))
	return 1
}

func (s *Script) notes(L *lua.LState) int {
	L.Push(lua.LString(s.mc.Host.NotesString()))
	return 1
}

func (s *Script) clear(L *lua.LState) int {
	s.mc.Host.ClearNotes()
	return 0
}

func (s *Script) read(L *lua.LState) int {
	c := s.checkChip(1)
	L.Push(lua.LNumber(c.ReadRegister(s.checkByte(3))))
	return 1
}

func (s *Script) write(L *lua.LState) int {
	c := s.checkChip(1)
	c.WriteRegister(s.checkByte(3), s.checkByte(4))
	return 0
}

func (s *Script) peek(L *lua.LState) int {
	c := s.checkChip(1)
	L.Push(lua.LNumber(c.PeekRegister(s.checkByte(3))))
	return 1
}

func (s *Script) format(L *lua.LState) int {
	d, err := s.mc.Drive(L.CheckString(1))
	s.raise(err)
	unit := L.CheckInt(2)
	id := L.OptString(3, "00")
	if len(id) != 2 {
		L.ArgError(3, "disk id must be two characters")
	}
	disk := floppy.Format(d.Model().Geometry, [2]byte{id[0], id[1]}, nil)
	s.raise(d.Insert(unit, disk))
	return 0
}

func (s *Script) expect(L *lua.LState) int {
	if !L.ToBool(1) {
		L.RaiseError("%s%s", expectFailMark, L.OptString(2, "no message"))
	}
	return 0
}

func (s *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, logTag, L.CheckString(1))
	return 0
}

func (s *Script) print(L *lua.LState) int {
	n := L.GetTop()
	p := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p = append(p, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(s.out, strings.Join(p, "\t"))
	return 0
}
