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

//go:build unix

package monitor

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// Terminal wraps the termios functions of "github.com/pkg/term/termios" in
// functions with friendlier names and keeps track of the terminal geometry
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// sig/ack channels to control signal handler
	terminateHandlerSig chan bool
	terminateHandlerAck chan bool

	// the geometry is updated by the signal handler
	mu   sync.Mutex
	cols int
	rows int
}

// Initialise the terminal. The signal handler goroutine must be stopped with
// CleanUp()
func (term *Terminal) Initialise(input, output *os.File) error {
	if input == nil || output == nil {
		return fmt.Errorf("monitor: terminal requires an input and output file")
	}
	if !xterm.IsTerminal(int(input.Fd())) {
		return fmt.Errorf("monitor: input is not a terminal")
	}

	term.input = input
	term.output = output

	if err := termios.Tcgetattr(term.input.Fd(), &term.canAttr); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	term.cbreakAttr = term.canAttr
	termios.Cfmakecbreak(&term.cbreakAttr)

	_ = term.UpdateGeometry()

	term.terminateHandlerSig = make(chan bool)
	term.terminateHandlerAck = make(chan bool)

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			term.terminateHandlerAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = term.UpdateGeometry()
			case <-term.terminateHandlerSig:
				return
			}
		}
	}()

	return nil
}

// CleanUp restores canonical mode and stops the signal handler
func (term *Terminal) CleanUp() {
	term.CanonicalMode()
	term.terminateHandlerSig <- true
	<-term.terminateHandlerAck
}

// UpdateGeometry gets the current dimensions of the output terminal
func (term *Terminal) UpdateGeometry() error {
	term.mu.Lock()
	defer term.mu.Unlock()

	cols, rows, err := xterm.GetSize(int(term.output.Fd()))
	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	term.cols = cols
	term.rows = rows
	return nil
}

// Geometry returns the number of columns and rows of the output terminal
func (term *Terminal) Geometry() (int, int) {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.cols, term.rows
}

// CanonicalMode puts terminal into normal, everyday canonical mode
func (term *Terminal) CanonicalMode() {
	_ = termios.Tcsetattr(term.input.Fd(), termios.TCIFLUSH, &term.canAttr)
}

// CBreakMode puts terminal into cbreak mode
func (term *Terminal) CBreakMode() {
	_ = termios.Tcsetattr(term.input.Fd(), termios.TCIFLUSH, &term.cbreakAttr)
}

// Input returns the file used for input
func (term *Terminal) Input() *os.File {
	return term.input
}
