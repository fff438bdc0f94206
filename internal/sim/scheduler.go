package sim

import (
	"container/heap"
	"sync"
	"time"
)

// Scheduler runs one-shot callbacks on the loop goroutine once the loop clock
// passes their due time. It satisfies game.Scheduler.
type Scheduler struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	queue   timerQueue
	recover func(any)
}

type scheduledTimer struct {
	due       time.Time
	seq       uint64
	fn        func(now time.Time)
	cancelled bool
	index     int
}

// NewScheduler starts the scheduler clock at now.
func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// After arms fn to run d after the scheduler's current time. Timers with the
// same due time fire in arming order.
func (s *Scheduler) After(d time.Duration, fn func(now time.Time)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	timer := &scheduledTimer{due: s.now.Add(d), seq: s.seq, fn: fn}
	heap.Push(&s.queue, timer)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if timer.cancelled || timer.index < 0 {
			return
		}
		timer.cancelled = true
		heap.Remove(&s.queue, timer.index)
	}
}

// SetRecover installs the handler that receives panics raised by callbacks.
// Without one, a panicking callback propagates to the caller of Advance.
func (s *Scheduler) SetRecover(fn func(any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recover = fn
}

// Advance moves the clock to now and fires every due callback in due order,
// including ones armed by callbacks that are already due. It returns the
// number of callbacks fired.
func (s *Scheduler) Advance(now time.Time) int {
	fired := 0
	for {
		timer, ok := s.popDue(now)
		if !ok {
			break
		}
		fired++
		s.invoke(timer)
	}
	s.mu.Lock()
	if now.After(s.now) {
		s.now = now
	}
	s.mu.Unlock()
	return fired
}

// Pending reports how many callbacks are armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Now reports the scheduler clock.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Scheduler) popDue(now time.Time) (*scheduledTimer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Len() == 0 || s.queue[0].due.After(now) {
		return nil, false
	}
	timer := heap.Pop(&s.queue).(*scheduledTimer)
	if timer.due.After(s.now) {
		s.now = timer.due
	}
	return timer, true
}

func (s *Scheduler) invoke(timer *scheduledTimer) {
	s.mu.Lock()
	handler := s.recover
	s.mu.Unlock()
	if handler != nil {
		defer func() {
			if r := recover(); r != nil {
				handler(r)
			}
		}()
	}
	timer.fn(timer.due)
}

type timerQueue []*scheduledTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	timer := x.(*scheduledTimer)
	timer.index = len(*q)
	*q = append(*q, timer)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	timer := old[n-1]
	old[n-1] = nil
	timer.index = -1
	*q = old[:n-1]
	return timer
}
