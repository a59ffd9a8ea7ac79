package game

import (
	"sort"
	"time"
)

// Scheduler runs deferred callbacks on a virtual clock that only moves when
// Advance is called. The session advances it from its own tick source, so
// pausing the session pauses every pending task with it.
type Scheduler struct {
	now   time.Duration
	tasks []*Task
}

// Task is a handle to a scheduled callback.
type Task struct {
	due      time.Duration
	fn       func()
	canceled bool
	fired    bool
}

// Cancel prevents the task from running. Safe to call more than once and
// after the task fired.
func (t *Task) Cancel() {
	if t != nil {
		t.canceled = true
	}
}

// Pending reports whether the task is still waiting to fire.
func (t *Task) Pending() bool {
	return t != nil && !t.canceled && !t.fired
}

// After schedules fn to run once delay of virtual time has elapsed.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	t := &Task{due: s.now + max(delay, 0), fn: fn}
	s.tasks = append(s.tasks, t)
	sort.SliceStable(s.tasks, func(i, j int) bool { return s.tasks[i].due < s.tasks[j].due })
	return t
}

// Next returns the virtual time until the earliest pending task.
func (s *Scheduler) Next() (time.Duration, bool) {
	s.compact()
	if len(s.tasks) == 0 {
		return 0, false
	}
	return s.tasks[0].due - s.now, true
}

// Advance moves the clock forward by d and runs every task that became due,
// in due order. Tasks scheduled by a running callback are honoured if they
// fall inside the same window.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + max(d, 0)
	for {
		s.compact()
		if len(s.tasks) == 0 || s.tasks[0].due > target {
			break
		}
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.now = t.due
		t.fired = true
		t.fn()
	}
	s.now = target
}

// Reset cancels everything that is pending.
func (s *Scheduler) Reset() {
	for _, t := range s.tasks {
		t.canceled = true
	}
	s.tasks = s.tasks[:0]
}

// compact drops canceled tasks.
func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.canceled {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}
