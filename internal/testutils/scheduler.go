package testutils

import (
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/taskwatch/internal/tracker"
)

// ManualScheduler is a tracker.Scheduler driven by virtual time. Scheduled
// calls only run inside Advance or RunDue, on the calling goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
	owner   *ManualScheduler
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After schedules fn to run once virtual time has advanced by d.
func (s *ManualScheduler) After(d time.Duration, fn func()) tracker.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{due: s.now + d, seq: s.seq, fn: fn, owner: s}
	s.pending = append(s.pending, t)
	return t
}

// Stop cancels the scheduled call.
func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the current virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of scheduled calls that have not run or been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// RunDue runs every call that is due at the current virtual time, including
// calls scheduled with zero delay by the calls it runs.
func (s *ManualScheduler) RunDue() {
	s.Advance(0)
}

// Advance moves virtual time forward by d, running due calls in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		next.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// nextDue pops the earliest live timer due at or before target and moves
// the clock to its due time.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.pending = live

	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].due != s.pending[j].due {
			return s.pending[i].due < s.pending[j].due
		}
		return s.pending[i].seq < s.pending[j].seq
	})

	if len(s.pending) == 0 || s.pending[0].due > target {
		return nil
	}

	t := s.pending[0]
	t.fired = true
	if t.due > s.now {
		s.now = t.due
	}
	return t
}

var _ tracker.Scheduler = (*ManualScheduler)(nil)
