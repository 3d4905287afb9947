package scheduler

import (
	"container/list"
	"fmt"
	"strings"
)

// NanosecondsPerSecond is the number of time units in one second
const NanosecondsPerSecond = 1000000000

// Timer is a pending callback. Timers are created by the Scheduler and should
// not be instantiated directly
type Timer struct {
	label string

	// the time at which the callback will be run
	due int64

	callback func()

	// the list element the timer is stored in. nil if the timer is not active
	elem *list.Element
}

// Active returns true if the timer has not yet expired or been cancelled
func (t *Timer) Active() bool {
	return t != nil && t.elem != nil
}

// Due returns the time at which the timer is due to expire
func (t *Timer) Due() int64 {
	return t.due
}

func (t *Timer) String() string {
	label := strings.TrimSpace(t.label)
	if label == "" {
		label = "[unlabelled timer]"
	}
	return fmt.Sprintf("%s -> %d", label, t.due)
}

// Scheduler maintains a list of timers ordered by the time they are due
type Scheduler struct {
	now int64

	// active timers ordered by due time. timers with the same due time are
	// ordered by when they were started
	active *list.List

	// expired timers are kept for reuse
	pool []*Timer
}

// NewScheduler is the preferred method of initialisation for the Scheduler type
func NewScheduler() *Scheduler {
	return &Scheduler{
		active: list.New(),
	}
}

func (s *Scheduler) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("now: %d", s.now))
	for e := s.active.Front(); e != nil; e = e.Next() {
		b.WriteString("\n")
		b.WriteString(e.Value.(*Timer).String())
	}
	return b.String()
}

// Now returns the current time in nanoseconds
func (s *Scheduler) Now() int64 {
	return s.now
}

// Pending returns the number of active timers
func (s *Scheduler) Pending() int {
	return s.active.Len()
}

// Start a new timer. The callback will be run once the delay (in
// nanoseconds) has elapsed. A negative delay is treated as zero
func (s *Scheduler) Start(label string, delay int64, callback func()) *Timer {
	if delay < 0 {
		delay = 0
	}

	var t *Timer
	if len(s.pool) > 0 {
		t = s.pool[len(s.pool)-1]
		s.pool = s.pool[:len(s.pool)-1]
	} else {
		t = &Timer{}
	}

	t.label = label
	t.due = s.now + delay
	t.callback = callback

	// insert after the last timer that is due at or before the new timer
	e := s.active.Back()
	for e != nil && e.Value.(*Timer).due > t.due {
		e = e.Prev()
	}
	if e == nil {
		t.elem = s.active.PushFront(t)
	} else {
		t.elem = s.active.InsertAfter(t, e)
	}

	return t
}

// Cancel an active timer. The timer's callback will not be run. Cancelling an
// inactive timer (or a nil timer) has no effect
//
// It is very important that any references to the timer be forgotten once
// Cancel() has been called
func (s *Scheduler) Cancel(t *Timer) {
	if !t.Active() {
		return
	}
	s.retire(t)
}

func (s *Scheduler) retire(t *Timer) {
	s.active.Remove(t.elem)
	t.elem = nil
	t.callback = nil
	s.pool = append(s.pool, t)
}

// Next returns the time at which the earliest timer is due. The boolean
// return value is false if there are no pending timers
func (s *Scheduler) Next() (int64, bool) {
	e := s.active.Front()
	if e == nil {
		return 0, false
	}
	return e.Value.(*Timer).due, true
}

// RunNext advances time to the earliest pending timer and runs its callback.
// Returns false if there were no pending timers
func (s *Scheduler) RunNext() bool {
	e := s.active.Front()
	if e == nil {
		return false
	}

	t := e.Value.(*Timer)
	s.now = t.due

	// the timer is retired before the callback is run so that the callback can
	// start new timers without the expired timer being counted as pending
	cb := t.callback
	s.retire(t)
	cb()

	return true
}

// RunUntil runs every timer that is due before or at the specified time. Time
// is then advanced to the specified time
func (s *Scheduler) RunUntil(until int64) {
	for {
		due, ok := s.Next()
		if !ok || due > until {
			break
		}
		s.RunNext()
	}
	if until > s.now {
		s.now = until
	}
}
