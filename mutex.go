package taskmx

// Mutex provides mutual exclusion for tasks. It allows only one task
// to hold the lock at a time, suspending other tasks that attempt to
// acquire it until it is released. Mutex is not recursive: a holder
// that locks again blocks on itself. Use RecursiveMutex for call
// sites that re-enter their critical section.
type Mutex struct {
	noCopy noCopy
	sem    *Semaphore
}

// NewMutex allocates an unlocked mutex. It never blocks. It fails
// with ErrNoMem when the schedule's semaphore budget is exhausted.
func (s *Schedule) NewMutex() (*Mutex, error) {
	sem, err := s.NewSemaphore()
	if err != nil {
		return nil, err
	}
	return &Mutex{sem: sem}, nil
}

// Lock acquires the mutex for t. An available mutex is claimed
// without suspending. Otherwise the caller suspends until the holder
// releases or timeout ticks elapse: NoWait polls, Forever waits
// indefinitely. Returns ErrTimedOut when the timeout expires, leaving
// the mutex unchanged and t removed from the wait set.
func (m *Mutex) Lock(t *Task, timeout Ticks) error {
	if m.sem.Take(t, timeout) {
		return nil
	}
	return ErrTimedOut
}

// Unlock releases the mutex. Only the holder may unlock; ErrNotOwner
// is returned otherwise and the mutex is unchanged. With waiters
// blocked, the highest-priority one becomes the holder.
func (m *Mutex) Unlock(t *Task) error {
	if m.sem.Holder() != t.id {
		return ErrNotOwner
	}
	m.sem.Give(t)
	return nil
}

// Holder returns the task currently holding the mutex, or NoTask. The
// result is advisory: it may be stale the instant it returns, so it
// must not back decisions that require atomicity.
func (m *Mutex) Holder() TaskID {
	return m.sem.Holder()
}

// IsTaskWaiting reports whether the task with the given id is blocked
// inside Lock on this mutex. Read-only and non-blocking, for
// diagnostic tooling such as deadlock inspection.
func (m *Mutex) IsTaskWaiting(id TaskID) bool {
	return m.sem.IsTaskWaiting(id)
}

// WaitCount returns the number of tasks blocked waiting to acquire
// the mutex.
func (m *Mutex) WaitCount() int {
	return m.sem.WaitCount()
}

// AssertHeld panics unless the mutex's hold state for t matches held.
// Debug assertion for call sites that require, or forbid, holding the
// lock.
func (m *Mutex) AssertHeld(t *Task, held bool) {
	if (m.sem.Holder() == t.id) == held {
		return
	}
	if held {
		panic("taskmx: mutex not held by calling task")
	}
	panic("taskmx: mutex unexpectedly held by calling task")
}

// Delete tears the mutex down. Deleting a held or waited-on mutex,
// and any use after Delete, panics.
func (m *Mutex) Delete() {
	m.sem.Delete()
}
