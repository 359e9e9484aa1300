// Package timer provides the game clock and the scheduled-callback queue that
// drives every delayed weapon action. Nothing here reads wall time: the owner
// of a Scheduler advances it once per tick.
package timer

import "container/heap"

// Handle identifies a scheduled callback. The zero Handle is never active.
type Handle uint64

// Clock is a monotonic game clock measured in seconds.
type Clock struct {
	now float64
}

// Now returns the current game time in seconds.
func (c *Clock) Now() float64 {
	return c.now
}

func (c *Clock) set(t float64) {
	if t > c.now {
		c.now = t
	}
}

type entry struct {
	handle    Handle
	at        float64
	seq       uint64
	interval  float64
	repeating bool
	cb        func()
	index     int
}

type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	e := x.(*entry)
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

// Scheduler is a min-heap of pending callbacks keyed by fire time.
// It is not safe for concurrent use; a peer owns one scheduler and mutates it
// only from its tick loop.
type Scheduler struct {
	clock      Clock
	pending    queue
	byID       map[Handle]*entry
	nextID     Handle
	nextSeq    uint64
	frameClock bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithFrameClock makes callbacks observe the time passed to AdvanceTo rather
// than their own scheduled time, the way a game engine fires timers at frame
// time. Rescheduling from a callback then accumulates per-frame slack.
func WithFrameClock() Option {
	return func(s *Scheduler) {
		s.frameClock = true
	}
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		byID: make(map[Handle]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler's game time.
func (s *Scheduler) Now() float64 {
	return s.clock.Now()
}

// SetTimer schedules cb to run after delay seconds. A non-positive delay
// schedules nothing and returns the zero Handle.
func (s *Scheduler) SetTimer(cb func(), delay float64, repeating bool) Handle {
	if cb == nil || delay <= 0 {
		return 0
	}
	s.nextID++
	s.nextSeq++
	e := &entry{
		handle:    s.nextID,
		at:        s.clock.Now() + delay,
		seq:       s.nextSeq,
		interval:  delay,
		repeating: repeating,
		cb:        cb,
	}
	heap.Push(&s.pending, e)
	s.byID[e.handle] = e
	return e.handle
}

// ClearTimer cancels a pending callback. Clearing an inactive handle is a no-op.
func (s *Scheduler) ClearTimer(h Handle) {
	e, ok := s.byID[h]
	if !ok {
		return
	}
	delete(s.byID, h)
	if e.index >= 0 {
		heap.Remove(&s.pending, e.index)
	}
}

// IsActive reports whether h is still waiting to fire.
func (s *Scheduler) IsActive(h Handle) bool {
	_, ok := s.byID[h]
	return ok
}

// Remaining returns the seconds left before h fires, or -1 if it is not active.
func (s *Scheduler) Remaining(h Handle) float64 {
	e, ok := s.byID[h]
	if !ok {
		return -1
	}
	return e.at - s.clock.Now()
}

// Pending returns the number of active timers.
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// Advance moves the clock forward by dt seconds, running everything that falls due.
func (s *Scheduler) Advance(dt float64) {
	s.AdvanceTo(s.clock.Now() + dt)
}

// AdvanceTo runs every callback due at or before t in fire-time order. While a
// callback runs the clock reads its scheduled time (or t with WithFrameClock),
// so callbacks that schedule follow-ups see exact intervals. Follow-ups that
// fall due before t run in the same call.
func (s *Scheduler) AdvanceTo(t float64) {
	for s.pending.Len() > 0 {
		next := s.pending[0]
		if next.at > t {
			break
		}
		heap.Pop(&s.pending)
		if s.frameClock {
			s.clock.set(t)
		} else {
			s.clock.set(next.at)
		}

		if next.repeating {
			s.nextSeq++
			next.at += next.interval
			next.seq = s.nextSeq
			heap.Push(&s.pending, next)
		} else {
			delete(s.byID, next.handle)
		}
		next.cb()
	}
	s.clock.set(t)
}
