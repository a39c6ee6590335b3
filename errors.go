package taskmx

import "errors"

var (
	// ErrTimedOut reports that a lock or take attempt exceeded its
	// timeout. Recoverable: the caller decides whether to retry.
	ErrTimedOut = errors.New("taskmx: lock attempt timed out")

	// ErrNotOwner reports an unlock by a task that does not hold the
	// lock. It indicates a caller logic bug; the lock is unchanged.
	ErrNotOwner = errors.New("taskmx: caller does not hold the lock")

	// ErrNoMem reports that creation failed because the schedule's
	// semaphore budget is exhausted.
	ErrNoMem = errors.New("taskmx: semaphore budget exhausted")
)
