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
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gopher2040/digest"
	"github.com/jetsetilly/gopher2040/hardware/clocks"
	"github.com/jetsetilly/gopher2040/hardware/floppy"
	"github.com/jetsetilly/gopher2040/hardware/machine"
	"github.com/jetsetilly/gopher2040/hardware/peripherals"
	"github.com/jetsetilly/gopher2040/hardware/preferences"
	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/logger"
	"github.com/jetsetilly/gopher2040/modalflag"
	"github.com/jetsetilly/gopher2040/monitor"
	"github.com/jetsetilly/gopher2040/prefs"
	"github.com/jetsetilly/gopher2040/probe"
	"github.com/jetsetilly/gopher2040/script"
	"github.com/jetsetilly/gopher2040/statsview"
	"golang.org/x/term"
)

// exit values
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	// #ctrlc cancels the context. modes should return as soon as possible
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()

	os.Exit(exitVal)
}

// launch parses the command line and runs the selected mode. returns the
// value to use with os.Exit()
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("SCRIPT", "MONITOR", "PREFS")
	md.AddDefaultSubMode("RUN")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)
	case "SCRIPT":
		err = runScript(ctx, md, output)
	case "MONITOR":
		err = runMonitor(ctx, md, output)
	case "PREFS":
		err = showPrefs(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitModeError
	}

	return exitOK
}

// machineFlags are the flags common to every mode that creates a machine
type machineFlags struct {
	devices *string
	model   *string
	address *int
	format  *bool
	log     *bool
	prefs   *string
}

func addMachineFlags(md *modalflag.Modes) machineFlags {
	return machineFlags{
		devices: md.AddString("devices", "", "device list (overrides preferences)"),
		model:   md.AddString("model", "", fmt.Sprintf("single drive model: %s", strings.Join(peripherals.Drives(), ", "))),
		address: md.AddInt("address", 8, "bus address of single drive"),
		format:  md.AddBool("format", false, "insert a newly formatted disk in every unit"),
		log:     md.AddBool("log", false, "echo log to stdout"),
		prefs:   md.AddString("prefs", "", "preferences for this session (key::value; key::value)"),
	}
}

// create the machine described by the flags and the stored preferences
func (f machineFlags) create(output io.Writer) (*machine.Machine, *preferences.Preferences, error) {
	if *f.prefs != "" {
		prefs.PushCommandLineStack(*f.prefs)
		defer prefs.PopCommandLineStack()
	}

	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, nil, err
	}

	if *f.log || p.LogEcho.Get().(bool) {
		setEcho(output)
	} else {
		logger.SetEcho(nil, false)
	}

	var cfgs []preferences.DeviceConfig
	switch {
	case *f.model != "":
		cfgs = []preferences.DeviceConfig{
			{Tag: "host", Model: "HOST"},
			{Tag: fmt.Sprintf("drive%d", *f.address), Model: *f.model, Address: *f.address},
		}
	case *f.devices != "":
		cfgs, err = preferences.ParseDevices(*f.devices)
	default:
		cfgs, err = p.DeviceConfigs()
	}
	if err != nil {
		return nil, nil, err
	}

	mc, err := machine.NewMachine(cfgs)
	if err != nil {
		return nil, nil, err
	}

	if *f.format {
		for _, d := range mc.Drives {
			for u := range d.Model().Units {
				disk := floppy.Format(d.Model().Geometry, [2]byte{'0', '0'}, nil)
				if err := d.Insert(u, disk); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	return mc, p, nil
}

// log entries are colourised when the output is a terminal
func setEcho(output io.Writer) {
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.SetEcho(logger.NewColorizer(output), false)
		return
	}
	logger.SetEcho(output, false)
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	flags := addMachineFlags(md)
	duration := md.AddInt("duration", -1, "milliseconds of emulated time (default from preferences)")
	wav := md.AddString("wav", "", "record the head signal of the first drive to wav file")
	dig := md.AddBool("digest", false, "print a digest of the head signal of every drive")
	dot := md.AddString("dot", "", "write a graph of the machine state to dot file")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (available: %v)", statsview.Available()))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *stats {
		statsview.Launch(output)
	}

	mc, prf, err := flags.create(output)
	if err != nil {
		return err
	}

	if *wav != "" {
		if len(mc.Drives) == 0 {
			return fmt.Errorf("no drive to probe")
		}
		prb := probe.NewProbe(*wav, 0, 0)
		mc.Drives[0].FDC.AddObserver(prb)
		defer func() {
			if err := prb.Write(); err != nil {
				logger.Log(logger.Allow, "probe", err)
			}
		}()
	}

	var bits *digest.Bits
	if *dig {
		bits = digest.NewBits()
		for _, d := range mc.Drives {
			d.FDC.AddObserver(bits)
		}
	}

	ms := *duration
	if ms < 0 {
		ms = prf.Duration.Get().(int)
	}

	mc.Start()
	err = mc.Run(scheduler.Time(clocks.Duration(float64(ms)/1000)), func() (bool, error) {
		return ctx.Err() == nil, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprint(output, mc.String())
	if bits != nil {
		fmt.Fprintf(output, "digest %s (%d bits)\n", bits, bits.Len())
	}

	if *dot != "" {
		f, err := os.Create(*dot)
		if err != nil {
			return err
		}
		defer f.Close()
		memviz.Map(f, mc.Snapshot())
	}

	return nil
}

func runScript(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	flags := addMachineFlags(md)
	md.AdditionalHelp("The script is a Lua file. Bus and drive access is through the gpib table.")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one script file required for %s mode", md)
	}

	mc, _, err := flags.create(output)
	if err != nil {
		return err
	}
	mc.Start()

	s, err := script.NewScript(mc, output)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.RunFile(ctx, md.GetArg(0))
}

func runMonitor(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	flags := addMachineFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	mc, _, err := flags.create(output)
	if err != nil {
		return err
	}
	mc.Start()

	color := term.IsTerminal(int(os.Stdout.Fd()))
	mon, err := monitor.NewMonitor(mc, output, color)
	if err != nil {
		return err
	}

	return mon.Run(ctx, os.Stdin, os.Stdout)
}

func showPrefs(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	reset := md.AddBool("reset", false, "reset preferences to default values and save")
	devices := md.AddString("devices", "", "set and save the device list")
	md.AdditionalHelp("Devices are listed as tag:MODEL@address separated by commas. For example:\n\n  host:HOST, drive8:8050@8")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := preferences.NewPreferences()
	if err != nil {
		return err
	}

	save := false
	if *reset {
		if err := prf.Reset(); err != nil {
			return err
		}
		save = true
	}
	if *devices != "" {
		if err := prf.Devices.Set(*devices); err != nil {
			return err
		}
		save = true
	}
	if save {
		if err := prf.Save(); err != nil {
			return err
		}
	}

	fmt.Fprint(output, prf.String())
	return nil
}
