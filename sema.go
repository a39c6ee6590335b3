package taskmx

// Semaphore is a binary semaphore with an ownership concept: the task
// that takes it becomes the holder, and only the holder may give it
// back. Waiters queue by priority and wake highest first, FIFO within
// a priority band. It is the blocking primitive mutexes are built on.
type Semaphore struct {
	noCopy  noCopy
	sched   *Schedule
	holder  TaskID
	waiters waitQueue
	deleted bool
}

// NewSemaphore allocates a semaphore in the available state. It never
// blocks. It fails with ErrNoMem when the schedule's semaphore budget
// is exhausted.
func (s *Schedule) NewSemaphore() (*Semaphore, error) {
	if s.semaCap > 0 && s.semas >= s.semaCap {
		return nil, ErrNoMem
	}
	s.semas++
	return &Semaphore{sched: s}, nil
}

func (s *Semaphore) check() {
	if s.deleted {
		panic("taskmx: use of deleted semaphore")
	}
}

// Take claims the semaphore for t. When it is available the caller
// becomes the holder without suspending. When it is held, NoWait
// reports false immediately, and any other timeout suspends the
// caller until ownership is granted or timeout ticks elapse; Forever
// waits indefinitely. A timed-out caller has left the wait set and
// the semaphore is unchanged. Take reports whether t now holds the
// semaphore.
func (s *Semaphore) Take(t *Task, timeout Ticks) bool {
	s.check()

	if s.holder == NoTask {
		s.holder = t.id
		return true
	}

	if timeout == NoWait {
		return false
	}

	s.waiters.push(t)
	t.wq = &s.waiters
	return t.block(timeout) == wakeGranted
}

// Give releases the semaphore. Only the current holder may give; Give
// reports false otherwise and the semaphore is unchanged. With
// waiters queued, ownership transfers to the highest-priority one at
// give time, and the giver is preempted when the new holder outranks
// it.
func (s *Semaphore) Give(t *Task) bool {
	s.check()

	if s.holder == NoTask || s.holder != t.id {
		return false
	}

	w, ok := s.waiters.pop()
	if !ok {
		s.holder = NoTask
		return true
	}

	s.sched.cancelTimer(w)
	w.wq = nil
	s.holder = w.id
	s.sched.ready(w, wakeGranted)
	s.sched.preempt()
	return true
}

// Holder returns the task currently holding the semaphore, or NoTask.
// The result is advisory: concurrent tasks may change it the instant
// it returns.
func (s *Semaphore) Holder() TaskID {
	s.check()
	return s.holder
}

// IsTaskWaiting reports whether the task with the given id is blocked
// waiting to take the semaphore. It never blocks and has no side
// effects.
func (s *Semaphore) IsTaskWaiting(id TaskID) bool {
	s.check()
	return s.waiters.contains(id)
}

// WaitCount returns the number of tasks blocked waiting to take the
// semaphore.
func (s *Semaphore) WaitCount() int {
	s.check()
	return s.waiters.len()
}

// Delete tears the semaphore down and returns its budget. Deleting a
// held or waited-on semaphore is a contract violation and panics: it
// would strand the blocked tasks. Any use after Delete panics.
func (s *Semaphore) Delete() {
	s.check()

	if s.holder != NoTask {
		panic("taskmx: delete of held semaphore")
	}
	if s.waiters.len() > 0 {
		panic("taskmx: delete of semaphore with blocked waiters")
	}

	s.deleted = true
	s.sched.semas--
}
