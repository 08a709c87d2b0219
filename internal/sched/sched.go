package sched

import (
	"sync"
	"sync/atomic"
	"time"
)

// Executor runs a callback on the goroutine that owns the state the callback
// touches. Timer callbacks never run anywhere else.
type Executor func(func())

// Inline runs the callback right away on the calling goroutine.
func Inline(f func()) { f() }

// Scheduler arms timers on a Clock and delivers their callbacks through an
// Executor.
type Scheduler struct {
	clock Clock
	exec  Executor
}

func New(clock Clock, exec Executor) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if exec == nil {
		exec = Inline
	}
	return &Scheduler{clock: clock, exec: exec}
}

func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Timer is a cancellable one-shot or repeating callback.
type Timer struct {
	mu        sync.Mutex
	stopper   Stopper
	cancelled atomic.Bool
	fired     atomic.Bool
}

func (t *Timer) setStopper(st Stopper) {
	t.mu.Lock()
	t.stopper = st
	t.mu.Unlock()
}

// Cancel stops the timer. A callback already queued on the executor is
// dropped. Cancel reports whether the timer had not finished yet.
func (t *Timer) Cancel() bool {
	if t == nil {
		return false
	}
	wasLive := !t.cancelled.Swap(true) && !t.fired.Load()
	t.mu.Lock()
	st := t.stopper
	t.mu.Unlock()
	if st != nil {
		st.Stop()
	}
	return wasLive
}

// Cancelled reports whether Cancel was called.
func (t *Timer) Cancelled() bool {
	return t == nil || t.cancelled.Load()
}

// After runs fn once after d unless cancelled first.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	t.setStopper(s.clock.AfterFunc(d, func() {
		s.exec(func() {
			if t.cancelled.Load() || !t.fired.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	}))
	return t
}

// Every runs fn each d until cancelled. The next tick is armed before fn runs,
// so fn may cancel its own timer.
func (s *Scheduler) Every(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	var arm func()
	arm = func() {
		t.setStopper(s.clock.AfterFunc(d, func() {
			s.exec(func() {
				if t.cancelled.Load() {
					return
				}
				arm()
				fn()
			})
		}))
	}
	arm()
	return t
}

// Scope groups keyed timers with one owner. Arming a key cancels whatever was
// armed under it, and Close cancels everything. A Scope is used from the
// executor goroutine only.
type Scope struct {
	s      *Scheduler
	timers map[string]*Timer
	closed bool
}

func (s *Scheduler) NewScope() *Scope {
	return &Scope{s: s, timers: make(map[string]*Timer)}
}

// After replaces the timer under key with a one-shot one.
func (sc *Scope) After(key string, d time.Duration, fn func()) *Timer {
	if sc.closed {
		return deadTimer()
	}
	sc.Cancel(key)

	var t *Timer
	t = sc.s.After(d, func() {
		if sc.timers[key] == t {
			delete(sc.timers, key)
		}
		fn()
	})
	sc.timers[key] = t
	return t
}

// Every replaces the timer under key with a repeating one.
func (sc *Scope) Every(key string, d time.Duration, fn func()) *Timer {
	if sc.closed {
		return deadTimer()
	}
	sc.Cancel(key)
	t := sc.s.Every(d, fn)
	sc.timers[key] = t
	return t
}

// Cancel stops the timer under key, if any.
func (sc *Scope) Cancel(key string) bool {
	t, ok := sc.timers[key]
	if !ok {
		return false
	}
	delete(sc.timers, key)
	return t.Cancel()
}

// Active reports whether a timer is armed under key.
func (sc *Scope) Active(key string) bool {
	_, ok := sc.timers[key]
	return ok
}

// Len returns the number of armed timers.
func (sc *Scope) Len() int { return len(sc.timers) }

// Close cancels every timer; later arms are no-ops.
func (sc *Scope) Close() {
	if sc.closed {
		return
	}
	sc.closed = true
	for key, t := range sc.timers {
		t.Cancel()
		delete(sc.timers, key)
	}
}

func (sc *Scope) Closed() bool { return sc.closed }

func deadTimer() *Timer {
	t := &Timer{}
	t.cancelled.Store(true)
	return t
}
