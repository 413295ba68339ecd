package clock

import (
	"slices"
	"time"
)

// Timer is a pending one-shot callback registered on a Queue.
type Timer struct {
	due     time.Time
	fn      func()
	stopped bool
	fired   bool
}

// Stop cancels the timer. It reports whether the call prevented the
// callback from running.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Queue holds one-shot timers that fire when the owning loop calls Fire.
// Callbacks run on the caller's goroutine, so they need no locking against
// the rest of the loop. A Queue is not safe for concurrent use.
type Queue struct {
	src    Source
	timers []*Timer
}

// NewQueue creates a timer queue reading time from src.
func NewQueue(src Source) *Queue {
	return &Queue{src: src}
}

// Now returns the queue's current time.
func (q *Queue) Now() time.Time {
	return q.src.Now()
}

// AfterFunc schedules fn to run on the first Fire at or after now+d.
func (q *Queue) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	t := &Timer{due: q.src.Now().Add(d), fn: fn}
	q.timers = append(q.timers, t)
	return t
}

// Fire runs every timer that is due, earliest first, and returns how many
// callbacks ran. Timers scheduled by a callback wait for the next Fire.
func (q *Queue) Fire() int {
	now := q.src.Now()

	var due []*Timer
	kept := q.timers[:0]
	for _, t := range q.timers {
		switch {
		case t.stopped:
		case !t.due.After(now):
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	clear(q.timers[len(kept):])
	q.timers = kept

	slices.SortStableFunc(due, func(a, b *Timer) int {
		return a.due.Compare(b.due)
	})

	ran := 0
	for _, t := range due {
		// an earlier callback may have stopped it
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
		ran++
	}
	return ran
}

// Pending returns the number of live timers.
func (q *Queue) Pending() int {
	n := 0
	for _, t := range q.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
