// Package taskmx provides kernel-style mutual exclusion primitives on
// top of a deterministic cooperative task scheduler. It models the
// locking layer of a priority-based embedded multitasking kernel:
// tasks with fixed priorities, timeouts measured in scheduler ticks,
// and blocking primitives whose wait queues wake the highest-priority
// waiter first.
//
// Key components:
//
//   - Task: The coroutine-like unit of execution, with a priority and
//     an opaque identity. Tasks spawn child tasks, sleep in ticks,
//     and suspend inside blocking primitives.
//
//   - Schedule: Drives tasks on a single-threaded run loop with a
//     virtual tick clock. When no task is runnable the clock jumps
//     forward to the earliest pending deadline.
//
//   - Semaphore: The blocking primitive a mutex is built on. A binary
//     semaphore with an ownership concept and a priority-ordered wait
//     queue.
//
//   - Mutex and RecursiveMutex: Mutual exclusion built on Semaphore,
//     with holder and waiter introspection for diagnostic tooling.
//     The recursive flavor tracks an owner and a recursion depth so
//     the holding task may nest acquisitions without blocking itself.
//
//   - Synchronization utilities: WaitGroup, ErrGroup, and Once for
//     task coordination.
//
// Blocking operations suspend only the calling task and must be
// invoked from a running task, never from outside the run loop. A
// task can be blocked on at most one primitive at a time.
package taskmx
