package taskmx

import "github.com/gammazero/deque"

// timerEntry is one pending wakeup on the virtual clock. It wakes a
// sleeping task or expires a blocked lock attempt.
type timerEntry struct {
	deadline uint64
	task     *Task
}

// timerQueue holds pending wakeups ordered by deadline; ties keep
// insertion order. The run loop advances the clock to the front entry
// whenever no task is runnable.
type timerQueue struct {
	d deque.Deque[*timerEntry]
}

func (q *timerQueue) len() int {
	return q.d.Len()
}

// schedule inserts e in deadline order.
func (q *timerQueue) schedule(e *timerEntry) {
	i := q.d.Len()
	for ; i > 0; i-- {
		if q.d.At(i-1).deadline <= e.deadline {
			break
		}
	}
	q.d.Insert(i, e)
}

func (q *timerQueue) front() *timerEntry {
	return q.d.Front()
}

func (q *timerQueue) popFront() *timerEntry {
	return q.d.PopFront()
}

// cancel drops e, for waiters granted ownership before their deadline.
func (q *timerQueue) cancel(e *timerEntry) {
	if i := q.d.Index(func(x *timerEntry) bool { return x == e }); i >= 0 {
		q.d.Remove(i)
	}
}
