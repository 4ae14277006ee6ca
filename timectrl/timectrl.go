package timectrl

import (
	"sort"
	"sync"
	"time"
)

// Scheduler is the clock and delayed-callback primitive the animator is
// driven by. Components depend on this abstraction rather than the time
// package directly so tests can inject a deterministic virtual clock.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// AfterFunc invokes fn once after d has elapsed on this scheduler's
	// clock. fn may call AfterFunc again to re-arm.
	AfterFunc(d time.Duration, fn func())
}

// System is a Scheduler backed by the wall clock.
type System struct{}

// Now returns the current wall-clock time.
func (System) Now() time.Time { return time.Now() }

// AfterFunc delegates to time.AfterFunc. The callback runs on a timer
// goroutine, so callees guard their own state.
func (System) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Manual is a Scheduler whose clock only moves when Advance is called.
// Timers fire synchronously inside Advance, in deadline order, with the
// clock set to each timer's deadline while its callback runs. Callbacks
// may arm further timers; those are honoured within the same Advance if
// they fall inside the advanced window.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	deadline time.Time
	seq      int
	fn       func()
}

// NewManual constructs a manual scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers fn to run once the virtual clock reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.timers = append(m.timers, &manualTimer{
		deadline: m.now.Add(d),
		seq:      m.seq,
		fn:       fn,
	})
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the virtual clock forward by d, firing every timer
// whose deadline falls within the window. Ties fire in registration
// order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		tm := m.popDueLocked(target)
		if tm == nil {
			break
		}
		if tm.deadline.After(m.now) {
			m.now = tm.deadline
		}
		m.mu.Unlock()
		tm.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// AdvanceUntil repeatedly advances by step until done reports true or
// the budget is exhausted. It returns whether done was reached.
func (m *Manual) AdvanceUntil(step, budget time.Duration, done func() bool) bool {
	for elapsed := time.Duration(0); elapsed < budget; elapsed += step {
		if done() {
			return true
		}
		m.Advance(step)
	}
	return done()
}

// popDueLocked removes and returns the earliest timer due at or before
// target, or nil when none is due. Caller holds mu.
func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].deadline.Equal(m.timers[j].deadline) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})
	if m.timers[0].deadline.After(target) {
		return nil
	}
	tm := m.timers[0]
	m.timers = m.timers[1:]
	return tm
}
