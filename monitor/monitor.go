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

package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/ieee488"
	"github.com/jetsetilly/gopher2040/hardware/machine"
	"github.com/jetsetilly/gopher2040/hardware/memory/bus"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
	"github.com/jetsetilly/gopher2040/monitor/ansi"
)

// Error patterns
const (
	NoHost         = "monitor: machine has no host"
	UnknownCommand = "monitor: unknown command (%s)"
	BadArguments   = "monitor: %s: usage: %s"
	BadValue       = "monitor: %s: invalid value (%s)"
)

const prompt = "> "

type command struct {
	usage string
	args  int
	fn    func(mon *Monitor, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"HELP":    {"HELP", 0, (*Monitor).help},
		"QUIT":    {"QUIT", 0, nil},
		"STATE":   {"STATE", 0, (*Monitor).state},
		"LINES":   {"LINES", 0, (*Monitor).lines},
		"ASSERT":  {"ASSERT <line>", 1, (*Monitor).assert},
		"RELEASE": {"RELEASE <line>", 1, (*Monitor).release},
		"PULSE":   {"PULSE <line>", 1, (*Monitor).pulse},
		"PUT":     {"PUT <byte>", 1, (*Monitor).put},
		"RUN":     {"RUN <milliseconds>", 1, (*Monitor).run},
		"TICK":    {"TICK <ticks>", 1, (*Monitor).tick},
		"READ":    {"READ <drive> <chip> <register>", 3, (*Monitor).read},
		"PEEK":    {"PEEK <drive> <chip> <register>", 3, (*Monitor).peek},
		"WRITE":   {"WRITE <drive> <chip> <register> <byte>", 4, (*Monitor).write},
		"FORMAT":  {"FORMAT <drive> <unit> <id>", 3, (*Monitor).format},
		"NOTES":   {"NOTES", 0, (*Monitor).notes},
		"CLEAR":   {"CLEAR", 0, (*Monitor).clear},
		"LOG":     {"LOG <entries>", 1, (*Monitor).log},
		"RESET":   {"RESET", 0, (*Monitor).reset},
	}
}

// Monitor executes commands against a machine
type Monitor struct {
	mc    *machine.Machine
	out   io.Writer
	color bool
	ed    lineEditor
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
// The machine must have a host. If color is true then output is styled with
// ANSI sequences
func NewMonitor(mc *machine.Machine, out io.Writer, color bool) (*Monitor, error) {
	if mc.Host == nil {
		return nil, curated.Errorf(NoHost)
	}
	return &Monitor{
		mc:    mc,
		out:   out,
		color: color,
		ed:    lineEditor{out: out},
	}, nil
}

func (mon *Monitor) print(pen string, s string, a ...any) {
	if mon.color {
		fmt.Fprint(mon.out, ansi.Pens[pen])
	}
	fmt.Fprintf(mon.out, s, a...)
	if mon.color {
		fmt.Fprint(mon.out, ansi.NormalPen)
	}
	fmt.Fprint(mon.out, "\n")
}

// Execute a single line of input. Returns true if the monitor should quit
func (mon *Monitor) Execute(input string) (bool, error) {
	f := strings.Fields(input)
	if len(f) == 0 {
		return false, nil
	}

	name := strings.ToUpper(f[0])
	cmd, ok := commands[name]
	if !ok {
		return false, curated.Errorf(UnknownCommand, f[0])
	}
	if cmd.fn == nil {
		return true, nil
	}

	args := f[1:]
	if len(args) < cmd.args {
		return false, curated.Errorf(BadArguments, name, cmd.usage)
	}

	return false, cmd.fn(mon, args)
}

// execute a line and print any error. returns true if the monitor should
// quit
func (mon *Monitor) executeAndReport(input string) bool {
	quit, err := mon.Execute(input)
	if err != nil {
		mon.print("red", "* %v", err)
	}
	return quit
}

// RunReader executes every line from the reader until the input is
// exhausted, the QUIT command is found or the context is cancelled
func (mon *Monitor) RunReader(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if mon.executeAndReport(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Interactive runs the monitor on a terminal in cbreak mode
func (mon *Monitor) Interactive(ctx context.Context, term *Terminal) error {
	term.CBreakMode()
	defer term.CanonicalMode()

	r := bufio.NewReader(term.Input())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s, err := mon.ed.readLine(r, prompt)
		if err != nil {
			if curated.Is(err, Interrupted) {
				continue // for loop
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		if mon.executeAndReport(s) {
			return nil
		}
	}
}

// Run chooses between Interactive() and RunReader() depending on whether
// the input file is a terminal
func (mon *Monitor) Run(ctx context.Context, input, output *os.File) error {
	var term Terminal
	if err := term.Initialise(input, output); err != nil {
		return mon.RunReader(ctx, input)
	}
	defer term.CleanUp()

	mon.print("cyan", "%s", strings.TrimSuffix(mon.mc.String(), "\n"))
	return mon.Interactive(ctx, &term)
}

func parseByte(name string, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, curated.Errorf(BadValue, name, s)
	}
	return uint8(v), nil
}

func parseLine(name string, s string) (ieee488.Line, error) {
	l, ok := ieee488.LineFromString(s)
	if !ok {
		return 0, curated.Errorf(BadValue, name, s)
	}
	return l, nil
}

func (mon *Monitor) chip(args []string) (bus.Chip, uint8, error) {
	d, err := mon.mc.Drive(args[0])
	if err != nil {
		return nil, 0, err
	}
	c, err := d.Chip(args[1])
	if err != nil {
		return nil, 0, err
	}
	reg, err := parseByte("register", args[2])
	if err != nil {
		return nil, 0, err
	}
	return c, reg, nil
}

func (mon *Monitor) help(_ []string) error {
	names := []string{
		"ASSERT", "RELEASE", "PULSE", "PUT", "LINES",
		"RUN", "TICK", "READ", "PEEK", "WRITE", "FORMAT",
		"NOTES", "CLEAR", "STATE", "LOG", "RESET", "HELP", "QUIT",
	}
	for _, n := range names {
		mon.print("white", "%s", commands[n].usage)
	}
	return nil
}

func (mon *Monitor) state(_ []string) error {
	mon.print("cyan", "%s", strings.TrimSuffix(mon.mc.String(), "\n"))
	return nil
}

func (mon *Monitor) lines(_ []string) error {
	mon.print("cyan", "%s DATA=%02x", mon.mc.Bus.Lines(), mon.mc.Bus.Data())
	return nil
}

func (mon *Monitor) assert(args []string) error {
	l, err := parseLine("ASSERT", args[0])
	if err != nil {
		return err
	}
	return mon.mc.Host.Assert(l)
}

func (mon *Monitor) release(args []string) error {
	l, err := parseLine("RELEASE", args[0])
	if err != nil {
		return err
	}
	return mon.mc.Host.Release(l)
}

func (mon *Monitor) pulse(args []string) error {
	l, err := parseLine("PULSE", args[0])
	if err != nil {
		return err
	}
	return mon.mc.Host.Pulse(l)
}

func (mon *Monitor) put(args []string) error {
	v, err := parseByte("PUT", args[0])
	if err != nil {
		return err
	}
	return mon.mc.Host.PutData(v)
}

func (mon *Monitor) run(args []string) error {
	ms, err := strconv.ParseFloat(args[0], 64)
	if err != nil || ms < 0 {
		return curated.Errorf(BadValue, "RUN", args[0])
	}
	return mon.mc.Run(scheduler.Time(clocks.Duration(ms/1000)), nil)
}

func (mon *Monitor) tick(args []string) error {
	n, err := strconv.ParseInt(args[0], 0, 64)
	if err != nil || n < 0 {
		return curated.Errorf(BadValue, "TICK", args[0])
	}
	return mon.mc.Run(scheduler.Time(n), nil)
}

func (mon *Monitor) read(args []string) error {
	c, reg, err := mon.chip(args)
	if err != nil {
		return err
	}
	mon.print("yellow", "%s %02x = %02x", c.Tag(), reg, c.ReadRegister(reg))
	return nil
}

func (mon *Monitor) peek(args []string) error {
	c, reg, err := mon.chip(args)
	if err != nil {
		return err
	}
	mon.print("yellow", "%s %02x = %02x", c.Tag(), reg, c.PeekRegister(reg))
	return nil
}

func (mon *Monitor) write(args []string) error {
	c, reg, err := mon.chip(args)
	if err != nil {
		return err
	}
	v, err := parseByte("WRITE", args[3])
	if err != nil {
		return err
	}
	c.WriteRegister(reg, v)
	return nil
}

func (mon *Monitor) format(args []string) error {
	d, err := mon.mc.Drive(args[0])
	if err != nil {
		return err
	}
	unit, err := strconv.Atoi(args[1])
	if err != nil {
		return curated.Errorf(BadValue, "FORMAT", args[1])
	}
	if len(args[2]) != 2 {
		return curated.Errorf(BadValue, "FORMAT", args[2])
	}
	disk := floppy.Format(d.Model().Geometry, [2]byte{args[2][0], args[2][1]}, nil)
	return d.Insert(unit, disk)
}

func (mon *Monitor) notes(_ []string) error {
	mon.print("green", "%s", mon.mc.Host.NotesString())
	return nil
}

func (mon *Monitor) clear(_ []string) error {
	mon.mc.Host.ClearNotes()
	return nil
}

func (mon *Monitor) log(args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return curated.Errorf(BadValue, "LOG", args[0])
	}
	logger.Tail(mon.out, n)
	return nil
}

func (mon *Monitor) reset(_ []string) error {
	mon.mc.Reset()
	return nil
}
