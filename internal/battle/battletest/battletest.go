// Package battletest provides deterministic doubles for driving a battle
// engine in tests.
package battletest

import (
	"slices"
	"sync"
	"time"

	"github.com/csquest/api/internal/battle"
)

// Scheduler is a manual clock. Continuations run on the goroutine that
// calls Advance or RunAll, never on their own.
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	s       *Scheduler
}

func (t *task) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	t.s.remove(t)
	return true
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) battle.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &task{at: s.now + d, seq: s.seq, f: f, s: s}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of scheduled continuations.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Advance moves the clock forward by d, running every continuation that
// falls due in order. Continuations scheduled while advancing run too if
// they fall inside the window.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	until := s.now + d
	s.mu.Unlock()

	for {
		t := s.popDue(until)
		if t == nil {
			break
		}
		t.f()
	}

	s.mu.Lock()
	s.now = until
	s.mu.Unlock()
}

// RunNext runs the earliest pending continuation regardless of its delay.
// It reports false when nothing is pending.
func (s *Scheduler) RunNext() bool {
	t := s.popDue(-1)
	if t == nil {
		return false
	}
	t.f()
	return true
}

// RunAll runs continuations until none are pending.
func (s *Scheduler) RunAll() {
	for s.RunNext() {
	}
}

// popDue removes and returns the earliest task due at or before until. A
// negative until matches any task.
func (s *Scheduler) popDue(until time.Duration) *task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil
	}
	slices.SortStableFunc(s.tasks, func(a, b *task) int {
		if a.at != b.at {
			if a.at < b.at {
				return -1
			}
			return 1
		}
		return a.seq - b.seq
	})
	t := s.tasks[0]
	if until >= 0 && t.at > until {
		return nil
	}
	s.tasks = s.tasks[1:]
	t.stopped = true
	if t.at > s.now {
		s.now = t.at
	}
	return t
}

func (s *Scheduler) remove(t *task) {
	s.tasks = slices.DeleteFunc(s.tasks, func(x *task) bool { return x == t })
}

// Rand replays fixed values for IntN, cycling when exhausted. Values are
// reduced modulo n.
type Rand struct {
	mu     sync.Mutex
	values []int
	i      int
}

func NewRand(values ...int) *Rand {
	return &Rand{values: values}
}

func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.i%len(r.values)]
	r.i++
	return ((v % n) + n) % n
}
