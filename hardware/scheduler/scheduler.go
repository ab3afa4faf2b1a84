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

package scheduler

import (
	"container/heap"
	"fmt"
)

// Time is a point on the logical time line or a duration. The unit is one
// tick of the master clock (see the clocks package)
type Time int64

// Callback is called when a scheduled event is due. The now argument is the
// time at which the event was due
type Callback func(now Time)

// Handle identifies a scheduled callback. The zero value is never allocated
type Handle int

// event is a single entry in the event queue
type event struct {
	handle Handle
	cb     Callback

	// the time the event is next due and the order in which it was queued
	due Time
	seq uint64

	// period is zero for one-shot events
	period Time

	// index in the queue. -1 if the event is not queued
	index int
}

// Scheduler is the virtual clock and its queue of pending callbacks
type Scheduler struct {
	now Time
	seq uint64

	queue  queue
	events map[Handle]*event
	next   Handle
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type
func NewScheduler() *Scheduler {
	return &Scheduler{
		events: make(map[Handle]*event),
	}
}

func (sch *Scheduler) String() string {
	if len(sch.queue) == 0 {
		return fmt.Sprintf("now=%d (idle)", sch.now)
	}
	return fmt.Sprintf("now=%d pending=%d next=%d", sch.now, len(sch.queue), sch.queue[0].due)
}

// Now returns the current logical time
func (sch *Scheduler) Now() Time {
	return sch.now
}

// ScheduleAfter allocates a new handle and schedules the callback to run once
// after delay ticks. A negative delay is treated as zero
func (sch *Scheduler) ScheduleAfter(delay Time, cb Callback) Handle {
	e := sch.alloc(cb)
	sch.push(e, delay)
	return e.handle
}

// SchedulePeriodic allocates a new handle and schedules the callback to run
// every period ticks, the first time after one period. Period must be
// greater than zero
func (sch *Scheduler) SchedulePeriodic(period Time, cb Callback) Handle {
	if period <= 0 {
		panic(fmt.Sprintf("scheduler: invalid period (%d)", period))
	}
	e := sch.alloc(cb)
	e.period = period
	sch.push(e, period)
	return e.handle
}

// Allocate a handle for the callback without scheduling it. Use Reschedule()
// to arm the handle
func (sch *Scheduler) Allocate(cb Callback) Handle {
	return sch.alloc(cb).handle
}

func (sch *Scheduler) alloc(cb Callback) *event {
	sch.next++
	e := &event{
		handle: sch.next,
		cb:     cb,
		index:  -1,
	}
	sch.events[e.handle] = e
	return e
}

// Reschedule the callback of the handle to run after delay ticks. Any pending
// callback for the handle is cancelled. Periodic handles continue at their
// period after the rescheduled event. Returns false if the handle is unknown
func (sch *Scheduler) Reschedule(h Handle, delay Time) bool {
	e, ok := sch.events[h]
	if !ok {
		return false
	}
	sch.remove(e)
	sch.push(e, delay)
	return true
}

// SetPeriod changes the period of a handle and reschedules it to run one new
// period from now. A period of zero turns the handle into a one-shot event.
// Returns false if the handle is unknown
func (sch *Scheduler) SetPeriod(h Handle, period Time) bool {
	e, ok := sch.events[h]
	if !ok {
		return false
	}
	if period < 0 {
		panic(fmt.Sprintf("scheduler: invalid period (%d)", period))
	}
	e.period = period
	sch.remove(e)
	if period > 0 {
		sch.push(e, period)
	}
	return true
}

// Cancel any pending callback for the handle. The handle can be rearmed
// with Reschedule(). Returns false if nothing was pending
func (sch *Scheduler) Cancel(h Handle) bool {
	e, ok := sch.events[h]
	if !ok || e.index < 0 {
		return false
	}
	sch.remove(e)
	return true
}

// Pending returns true if the handle has a callback waiting to run
func (sch *Scheduler) Pending(h Handle) bool {
	e, ok := sch.events[h]
	return ok && e.index >= 0
}

// Due returns the time at which the handle's callback will next run. The
// second return value is false if nothing is pending
func (sch *Scheduler) Due(h Handle) (Time, bool) {
	e, ok := sch.events[h]
	if !ok || e.index < 0 {
		return 0, false
	}
	return e.due, true
}

// Advance the clock by duration ticks, running every callback that becomes
// due on the way
func (sch *Scheduler) Advance(duration Time) {
	if duration < 0 {
		return
	}
	sch.RunUntil(sch.now + duration)
}

// RunUntil runs every callback due at or before the target time in time
// order. The clock is left at the target time. Callbacks may schedule,
// reschedule or cancel any handle, including their own. A target in the past
// does nothing
func (sch *Scheduler) RunUntil(target Time) {
	for len(sch.queue) > 0 && sch.queue[0].due <= target {
		e := heap.Pop(&sch.queue).(*event)
		sch.now = e.due

		// periodic events are requeued before the callback so that a callback
		// that reschedules or cancels itself takes priority
		if e.period > 0 {
			sch.pushAt(e, e.due+e.period)
		}

		e.cb(sch.now)
	}

	if target > sch.now {
		sch.now = target
	}
}

func (sch *Scheduler) push(e *event, delay Time) {
	if delay < 0 {
		delay = 0
	}
	sch.pushAt(e, sch.now+delay)
}

func (sch *Scheduler) pushAt(e *event, due Time) {
	sch.seq++
	e.due = due
	e.seq = sch.seq
	heap.Push(&sch.queue, e)
}

func (sch *Scheduler) remove(e *event) {
	if e.index >= 0 {
		heap.Remove(&sch.queue, e.index)
	}
}

// queue implements heap.Interface. events are ordered by due time and then by
// the order in which they were queued
type queue []*event

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	e := x.(*event)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}
