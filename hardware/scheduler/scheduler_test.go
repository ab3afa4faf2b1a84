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

package scheduler_test

import (
	"testing"

	"github.com/jetsetilly/gopher2040/hardware/scheduler"
	"github.com/jetsetilly/gopher2040/test"
)

type firing struct {
	id  int
	now scheduler.Time
}

func recorder(log *[]firing, id int) scheduler.Callback {
	return func(now scheduler.Time) {
		*log = append(*log, firing{id: id, now: now})
	}
}

func TestOrdering(t *testing.T) {
	sch := scheduler.NewScheduler()
	var log []firing

	sch.ScheduleAfter(30, recorder(&log, 1))
	sch.ScheduleAfter(10, recorder(&log, 2))
	sch.ScheduleAfter(20, recorder(&log, 3))

	// ties fire in the order they were scheduled
	sch.ScheduleAfter(10, recorder(&log, 4))

	sch.Advance(100)
	test.DemandEquality(t, len(log), 4)
	test.ExpectEquality(t, log[0], firing{id: 2, now: 10})
	test.ExpectEquality(t, log[1], firing{id: 4, now: 10})
	test.ExpectEquality(t, log[2], firing{id: 3, now: 20})
	test.ExpectEquality(t, log[3], firing{id: 1, now: 30})
	test.ExpectEquality(t, sch.Now(), 100)
}

func TestRescheduleCancelsPrevious(t *testing.T) {
	sch := scheduler.NewScheduler()
	var log []firing

	h := sch.ScheduleAfter(10, recorder(&log, 1))
	sch.Advance(5)
	test.ExpectSuccess(t, sch.Reschedule(h, 20))

	sch.Advance(10)
	test.ExpectEquality(t, len(log), 0)

	sch.Advance(10)
	test.DemandEquality(t, len(log), 1)
	test.ExpectEquality(t, log[0].now, 25)

	// the handle can be rearmed after firing
	test.ExpectFailure(t, sch.Pending(h))
	test.ExpectSuccess(t, sch.Reschedule(h, 1))
	sch.Advance(1)
	test.ExpectEquality(t, len(log), 2)
}

func TestCancel(t *testing.T) {
	sch := scheduler.NewScheduler()
	var log []firing

	h := sch.ScheduleAfter(10, recorder(&log, 1))
	test.ExpectSuccess(t, sch.Cancel(h))
	test.ExpectFailure(t, sch.Cancel(h))
	sch.Advance(100)
	test.ExpectEquality(t, len(log), 0)

	test.ExpectFailure(t, sch.Reschedule(scheduler.Handle(99), 1))
}

func TestPeriodic(t *testing.T) {
	sch := scheduler.NewScheduler()
	var log []firing

	h := sch.SchedulePeriodic(10, recorder(&log, 1))
	sch.Advance(35)
	test.DemandEquality(t, len(log), 3)
	test.ExpectEquality(t, log[2].now, 30)

	// changing the period takes effect from now
	sch.SetPeriod(h, 4)
	sch.Advance(8)
	test.DemandEquality(t, len(log), 5)
	test.ExpectEquality(t, log[3].now, 39)
	test.ExpectEquality(t, log[4].now, 43)

	due, ok := sch.Due(h)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, due, 47)

	// period of zero stops the periodic event
	sch.SetPeriod(h, 0)
	sch.Advance(100)
	test.ExpectEquality(t, len(log), 5)
}

// callbacks can schedule further events, including events that are due
// during the same call to Advance()
func TestCallbackScheduling(t *testing.T) {
	sch := scheduler.NewScheduler()
	var log []firing

	sch.ScheduleAfter(10, func(now scheduler.Time) {
		log = append(log, firing{id: 1, now: now})
		sch.ScheduleAfter(0, recorder(&log, 2))
		sch.ScheduleAfter(5, recorder(&log, 3))
	})

	sch.Advance(20)
	test.DemandEquality(t, len(log), 3)
	test.ExpectEquality(t, log[1], firing{id: 2, now: 10})
	test.ExpectEquality(t, log[2], firing{id: 3, now: 15})
}

// a periodic callback that cancels itself runs only once
func TestPeriodicSelfCancel(t *testing.T) {
	sch := scheduler.NewScheduler()
	var count int

	var h scheduler.Handle
	h = sch.SchedulePeriodic(10, func(_ scheduler.Time) {
		count++
		sch.Cancel(h)
	})

	sch.Advance(100)
	test.ExpectEquality(t, count, 1)
}

func TestRunUntilPast(t *testing.T) {
	sch := scheduler.NewScheduler()
	sch.Advance(50)
	sch.RunUntil(10)
	test.ExpectEquality(t, sch.Now(), 50)
	sch.Advance(-5)
	test.ExpectEquality(t, sch.Now(), 50)
}
