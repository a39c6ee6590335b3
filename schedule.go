package taskmx

import (
	"context"
)

// Schedule manages the dispatching of tasks on a single-threaded run
// loop with a virtual tick clock. It holds the ready queue, the timer
// queue backing sleeps and lock timeouts, and the budget for blocking
// primitives.
type Schedule struct {
	runq    waitQueue
	timers  timerQueue
	now     uint64
	current *Task
	nextID  TaskID
	blocked int
	semas   int
	semaCap int
}

// New creates an empty Schedule with an unlimited semaphore budget.
func New() *Schedule {
	return new(Schedule)
}

// Now returns the current tick count of the virtual clock.
func (s *Schedule) Now() uint64 {
	return s.now
}

// SetSemaphoreLimit caps the number of live blocking primitives,
// modeling the fixed allocation pools of an embedded kernel. Creation
// past the cap fails with ErrNoMem; deletion returns budget. A cap of
// zero means unlimited.
func (s *Schedule) SetSemaphoreLimit(n int) {
	s.semaCap = n
}

// Resumable represents a root task function bound to a Schedule,
// ready to be driven to completion by Resume.
type Resumable struct {
	fn    func(context.Context, *Task)
	prio  Priority
	sched *Schedule
}

// Run creates a Resumable from a function that takes a context and a
// Task, to be spawned as the root task at the given priority.
func (s *Schedule) Run(prio Priority, fn func(context.Context, *Task)) *Resumable {
	return &Resumable{fn: fn, prio: prio, sched: s}
}

// Go creates a Resumable from a context-only function. It wraps the
// function with Fn to adapt it to the Task-based interface.
func (s *Schedule) Go(prio Priority, fn func(context.Context)) *Resumable {
	return s.Run(prio, s.Fn(fn))
}

// Resume starts the run loop with the root task and returns once
// every task has finished. It creates a cancellable context for the
// run.
func (r *Resumable) Resume(ctx context.Context) {
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop(rctx, r.prio, r.fn, r.sched)
}

// Fn adapts a context-only function to the Task-based function
// signature.
func (s *Schedule) Fn(fn func(context.Context)) func(context.Context, *Task) {
	return func(ctx context.Context, _ *Task) { fn(ctx) }
}

// ready moves t onto the ready queue with the given wake reason.
func (s *Schedule) ready(t *Task, w wake) {
	if t.state == stateBlocked {
		s.blocked--
	}
	t.state = stateReady
	t.wakeWith = w
	s.runq.push(t)
}

// preempt suspends the running task when a strictly higher-priority
// task became ready. Called by every operation that wakes tasks;
// no-op at loop level.
func (s *Schedule) preempt() {
	cur := s.current
	if cur == nil {
		return
	}

	top, ok := s.runq.peek()
	if !ok || top.prio <= cur.prio {
		return
	}

	cur.Log("PREEMPT")
	s.ready(cur, wakeReady)
	cur.suspend()
}

// startTimer registers a wakeup for t after d ticks.
func (s *Schedule) startTimer(t *Task, d Ticks) {
	e := &timerEntry{deadline: s.now + uint64(d), task: t}
	t.timer = e
	s.timers.schedule(e)
}

// cancelTimer drops t's pending wakeup, if any.
func (s *Schedule) cancelTimer(t *Task) {
	if t.timer != nil {
		s.timers.cancel(t.timer)
		t.timer = nil
	}
}

// advance jumps the clock to the earliest deadline and wakes every
// timer due at or before it. A timed-out waiter leaves its wait set
// before it is readied, so introspection never sees it waiting after
// its deadline.
func (s *Schedule) advance() {
	s.now = s.timers.front().deadline

	for s.timers.len() > 0 && s.timers.front().deadline <= s.now {
		e := s.timers.popFront()
		t := e.task
		t.timer = nil
		if t.wq != nil {
			t.wq.remove(t)
			t.wq = nil
		}
		s.ready(t, wakeTimeout)
	}
}

// finish unwinds a completed task: the last child to finish readies a
// parent suspended in Wait.
func (s *Schedule) finish(t *Task) {
	p := t.parent
	if p == nil {
		return
	}

	p.childn--
	if p.childn == 0 && p.kidwait {
		p.kidwait = false
		s.ready(p, wakeReady)
	}
}
