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

// Package timer implements the interval timer of the RIOT and MIOT chips.
//
// The timer does not need to be stepped. The count is calculated from the
// current time whenever it is accessed and a single scheduler event is used
// to raise the interrupt flag at the moment of expiry.
package timer

import (
	"fmt"

	"github.com/jetsetilly/gopher2040/hardware/scheduler"
)

// Interval indicates how often (in chip cycles) the timer value decreases.
// It is set to 1, 8, 64 or 1024 depending on which address has been written
// to by the CPU.
type Interval int

// List of valid Interval values
const (
	TIM1T  Interval = 1
	TIM8T  Interval = 8
	TIM64T Interval = 64
	T1024T Interval = 1024
)

// IntervalList is a list of all possible string representations of the
// Interval type
var IntervalList = []string{"TIM1T", "TIM8T", "TIM64T", "T1024T"}

// IntervalFromSelect returns the interval selected by the two low address
// bits of a timer write
func IntervalFromSelect(sel uint8) Interval {
	switch sel & 0x03 {
	case 0:
		return TIM1T
	case 1:
		return TIM8T
	case 2:
		return TIM64T
	}
	return T1024T
}

// Shift returns the interval as a shift amount
func (in Interval) Shift() int {
	switch in {
	case TIM1T:
		return 0
	case TIM8T:
		return 3
	case TIM64T:
		return 6
	case T1024T:
		return 10
	}
	panic("unknown timer interval")
}

func (in Interval) String() string {
	switch in {
	case TIM1T:
		return "TIM1T"
	case TIM8T:
		return "TIM8T"
	case TIM64T:
		return "TIM64T"
	case T1024T:
		return "T1024T"
	}
	panic("unknown timer interval")
}

// State of the timer
type State int

// List of valid State values
const (
	Idle State = iota
	Counting
	Finished
)

func (st State) String() string {
	switch st {
	case Idle:
		return "idle"
	case Counting:
		return "counting"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// the number of cycles the timer spends in the Finished state
const wrapCycles = 256

// Clock is the part of the scheduler used by the timer
type Clock interface {
	Now() scheduler.Time
	Allocate(cb scheduler.Callback) scheduler.Handle
	Reschedule(h scheduler.Handle, delay scheduler.Time) bool
	Cancel(h scheduler.Handle) bool
}

// Timer implements the timer part of the RIOT (the T in RIOT)
type Timer struct {
	clk    Clock
	handle scheduler.Handle

	// the number of logical time units in one chip cycle
	divider scheduler.Time

	// onExpire is called when the timer reaches zero and the flag is raised
	onExpire func()

	// the interval value most recently requested by the CPU
	Interval Interval

	State State

	// the chip cycle at which the count reaches zero
	Target int64

	// the timer interrupt flag. it is raised on expiry and cleared by the
	// next access to the timer
	Flag bool

	// the chip cycle at which a snapshot was taken
	frozen int64
}

// NewTimer is the preferred method of initialisation of the Timer type. The
// divider is the number of logical time units in one chip cycle. The
// onExpire function can be nil
func NewTimer(clk Clock, divider scheduler.Time, onExpire func()) *Timer {
	if divider <= 0 {
		panic(fmt.Sprintf("timer: invalid divider (%d)", divider))
	}

	tmr := &Timer{
		clk:      clk,
		divider:  divider,
		onExpire: onExpire,
	}

	if clk != nil {
		tmr.handle = clk.Allocate(func(_ scheduler.Time) {
			tmr.update()
		})
	}

	tmr.Reset()

	return tmr
}

func (tmr *Timer) String() string {
	return fmt.Sprintf("count=%#02x intv=%s state=%s flag=%v",
		tmr.Peek(),
		tmr.Interval,
		tmr.State,
		tmr.Flag,
	)
}

// Snapshot returns a copy of the timer state. The copy is detached from the
// clock and will not change
func (tmr *Timer) Snapshot() *Timer {
	n := *tmr
	n.frozen = tmr.cycles()
	n.clk = nil
	n.onExpire = nil
	return &n
}

// Reset the timer to its power-on state
func (tmr *Timer) Reset() {
	if tmr.clk != nil {
		tmr.clk.Cancel(tmr.handle)
	}
	tmr.Interval = T1024T
	tmr.State = Idle
	tmr.Target = 0
	tmr.Flag = false
}

// the current time in chip cycles
func (tmr *Timer) cycles() int64 {
	if tmr.clk == nil {
		return tmr.frozen
	}
	return int64(tmr.clk.Now() / tmr.divider)
}

// arm the scheduler event for the chip cycle given
func (tmr *Timer) arm(cycle int64) {
	if tmr.clk == nil {
		return
	}
	tmr.clk.Reschedule(tmr.handle, scheduler.Time(cycle)*tmr.divider-tmr.clk.Now())
}

// bring the state of the timer up to date with the clock
func (tmr *Timer) update() {
	now := tmr.cycles()

	if tmr.State == Counting && now >= tmr.Target {
		tmr.State = Finished
		tmr.Flag = true
		tmr.arm(tmr.Target + wrapCycles)
		if tmr.onExpire != nil {
			tmr.onExpire()
		}
	}

	if tmr.State == Finished && now >= tmr.Target+wrapCycles {
		tmr.State = Idle
	}
}

// the count as seen by the CPU. update() must have been called
func (tmr *Timer) count() uint8 {
	switch tmr.State {
	case Counting:
		return uint8((tmr.Target - tmr.cycles()) >> tmr.Interval.Shift())
	case Finished:
		return uint8(-(tmr.cycles() - tmr.Target))
	}
	return 0
}

// accessing the timer clears the flag unless the timer has just wrapped
// around to 0xff
func (tmr *Timer) access() {
	if tmr.Flag && !(tmr.State == Finished && tmr.count() == 0xff) {
		tmr.Flag = false
	}
}

// Write a new value to the timer. The count starts immediately
func (tmr *Timer) Write(value uint8, interval Interval) {
	tmr.update()
	tmr.access()

	tmr.Interval = interval
	tmr.State = Counting
	tmr.Target = tmr.cycles() + int64(value)<<interval.Shift()
	tmr.arm(tmr.Target)

	// a zero count expires immediately
	tmr.update()
}

// Read the timer count as the CPU would. The read can clear the flag
func (tmr *Timer) Read() uint8 {
	tmr.update()
	v := tmr.count()
	tmr.access()
	return v
}

// Peek returns the timer count without affecting the flag
func (tmr *Timer) Peek() uint8 {
	tmr.update()
	return tmr.count()
}

// Remaining returns the number of chip cycles until the timer expires. The
// value is zero unless the timer is counting
func (tmr *Timer) Remaining() int64 {
	tmr.update()
	if tmr.State != Counting {
		return 0
	}
	return tmr.Target - tmr.cycles()
}
