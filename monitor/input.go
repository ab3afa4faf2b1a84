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
	"fmt"
	"io"
	"unicode"

	"github.com/jetsetilly/gopher2040/curated"
	"github.com/jetsetilly/gopher2040/monitor/ansi"
)

// Interrupted is returned by the line editor when CTRL-C is pressed
const Interrupted = "monitor: user interrupt"

// lineEditor reads a single line of input from a terminal in cbreak mode. It
// echoes input itself and keeps a history of previous lines
type lineEditor struct {
	out     io.Writer
	history []string
}

func (ed *lineEditor) addHistory(s string) {
	if s == "" {
		return
	}
	if len(ed.history) > 0 && ed.history[len(ed.history)-1] == s {
		return
	}
	ed.history = append(ed.history, s)
}

// readLine returns the next line of input without the line terminator
func (ed *lineEditor) readLine(r io.RuneReader, prompt string) (string, error) {
	input := []rune{}
	cursor := 0
	history := len(ed.history)

	// the latest input is kept while scrolling through the history
	var buffInput []rune

	// redraw the whole line on every key and then put the cursor back
	redraw := func() {
		fmt.Fprintf(ed.out, "\r%s%s%s", ansi.ClearLine, prompt, string(input))
		fmt.Fprintf(ed.out, "\r%s", ansi.CursorMove(len([]rune(prompt))+cursor))
	}

	recall := func(s []rune) {
		input = append([]rune{}, s...)
		cursor = len(input)
	}

	for {
		redraw()

		c, _, err := r.ReadRune()
		if err != nil {
			return string(input), err
		}

		switch c {
		case KeyCtrlC:
			fmt.Fprint(ed.out, "\n")
			return "", curated.Errorf(Interrupted)

		case KeyCtrlD:
			if len(input) == 0 {
				fmt.Fprint(ed.out, "\n")
				return "", io.EOF
			}

		case KeyCarriageReturn, KeyLineFeed:
			s := string(input)
			ed.addHistory(s)
			fmt.Fprint(ed.out, "\n")
			return s, nil

		case KeyBackspace, '\b':
			if cursor > 0 {
				input = append(input[:cursor-1], input[cursor:]...)
				cursor--
				history = len(ed.history)
			}

		case KeyEsc:
			c, _, err := r.ReadRune()
			if err != nil {
				return string(input), err
			}
			if c != EscCursor {
				break // switch
			}

			c, _, err = r.ReadRune()
			if err != nil {
				return string(input), err
			}

			switch c {
			case CursorUp:
				if history == len(ed.history) {
					buffInput = append([]rune{}, input...)
				}
				if history > 0 {
					history--
					recall([]rune(ed.history[history]))
				}
			case CursorDown:
				if history < len(ed.history)-1 {
					history++
					recall([]rune(ed.history[history]))
				} else if history == len(ed.history)-1 {
					history++
					recall(buffInput)
				}
			case CursorForward:
				if cursor < len(input) {
					cursor++
				}
			case CursorBackward:
				if cursor > 0 {
					cursor--
				}
			case EscDelete:
				// delete key is followed by a tilde
				_, _, _ = r.ReadRune()
				if cursor < len(input) {
					input = append(input[:cursor], input[cursor+1:]...)
					history = len(ed.history)
				}
			}

		default:
			if unicode.IsPrint(c) {
				input = append(input[:cursor], append([]rune{c}, input[cursor:]...)...)
				cursor++
				history = len(ed.history)
			}
		}
	}
}
