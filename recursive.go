package taskmx

// RecursiveMutex is a mutex whose holder may re-acquire it without
// blocking on itself. Each Lock by the owner increments a recursion
// count; the underlying mutex is released only when Unlock brings the
// count back to zero. It degrades to a single blocking primitive: the
// recursion bookkeeping lives in this wrapper, not in the kernel.
type RecursiveMutex struct {
	noCopy noCopy
	core   *Mutex
	owner  TaskID
	count  int
}

// NewRecursiveMutex allocates an unlocked recursive mutex. It never
// blocks. It fails with ErrNoMem when the schedule's semaphore budget
// is exhausted.
func (s *Schedule) NewRecursiveMutex() (*RecursiveMutex, error) {
	core, err := s.NewMutex()
	if err != nil {
		return nil, err
	}
	return &RecursiveMutex{core: core}, nil
}

// Lock acquires the mutex for t. When t already owns it the recursion
// count increments and Lock returns immediately without touching the
// underlying primitive. Otherwise it behaves like Mutex.Lock; on
// success the count starts at one.
func (m *RecursiveMutex) Lock(t *Task, timeout Ticks) error {
	if m.owner == t.id {
		m.count++
		return nil
	}

	if err := m.core.Lock(t, timeout); err != nil {
		return err
	}

	m.owner = t.id
	m.count = 1
	return nil
}

// Unlock undoes one Lock by the owner. Only when the recursion count
// reaches zero is the underlying mutex released to the next waiter;
// otherwise the caller still holds it and other tasks observe no
// change. Returns ErrNotOwner for any other task, leaving owner and
// count unchanged.
func (m *RecursiveMutex) Unlock(t *Task) error {
	if m.owner != t.id {
		return ErrNotOwner
	}

	m.count--
	if m.count > 0 {
		return nil
	}

	m.owner = NoTask
	return m.core.Unlock(t)
}

// CallCount returns the current recursion depth: the number of Lock
// calls by the owner not yet matched by Unlock. Zero when unlocked.
// Read-only and non-blocking.
func (m *RecursiveMutex) CallCount() int {
	return m.count
}

// IsOwned reports whether t currently owns the mutex.
func (m *RecursiveMutex) IsOwned(t *Task) bool {
	return m.owner == t.id
}

// Holder returns the task currently holding the mutex, or NoTask. The
// result is advisory, as for Mutex.Holder.
func (m *RecursiveMutex) Holder() TaskID {
	return m.core.Holder()
}

// IsTaskWaiting reports whether the task with the given id is blocked
// inside Lock on this mutex.
func (m *RecursiveMutex) IsTaskWaiting(id TaskID) bool {
	return m.core.IsTaskWaiting(id)
}

// WaitCount returns the number of tasks blocked waiting to acquire
// the mutex.
func (m *RecursiveMutex) WaitCount() int {
	return m.core.WaitCount()
}

// Delete tears the mutex down. Deleting a held or waited-on mutex,
// and any use after Delete, panics.
func (m *RecursiveMutex) Delete() {
	m.core.Delete()
}
