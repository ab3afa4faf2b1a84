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

// Package scheduler implements the virtual clock of the emulation. Time is
// logical and monotonic. It only advances when Advance() or RunUntil() is
// called and never depends on the wall clock.
//
// Components that need to do something in the future allocate a Handle with
// ScheduleAfter() or SchedulePeriodic(). The callback of a handle fires when
// the clock reaches the due time. Callbacks that are due at the same instant
// fire in the order they were (re)scheduled.
//
// Rescheduling a handle implicitly cancels the pending callback:
//
//	h := sch.ScheduleAfter(100, expire)
//	...
//	sch.Reschedule(h, 50) // expire() now fires 50 ticks from now, once
//
// Handles remain valid after they fire so a one-shot timer can be rearmed by
// calling Reschedule() again.
//
// Callbacks run synchronously on the caller of Advance(). There is no
// concurrency and no locking.
package scheduler
