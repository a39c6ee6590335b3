package taskmx

import "github.com/gammazero/deque"

// waitQueue holds tasks ordered by priority, highest first, with FIFO
// order among tasks of equal priority. It backs both the scheduler's
// ready queue and the wait sets of blocking primitives, which also
// need arbitrary removal (timeout cancellation) and membership
// queries (waiter introspection).
type waitQueue struct {
	d deque.Deque[*Task]
}

func (q *waitQueue) len() int {
	return q.d.Len()
}

// push inserts t behind every queued task of equal or higher
// priority.
func (q *waitQueue) push(t *Task) {
	i := q.d.Len()
	for ; i > 0; i-- {
		if q.d.At(i-1).prio >= t.prio {
			break
		}
	}
	q.d.Insert(i, t)
}

// pop removes and returns the highest-priority task.
func (q *waitQueue) pop() (*Task, bool) {
	if q.d.Len() == 0 {
		return nil, false
	}
	return q.d.PopFront(), true
}

// peek returns the highest-priority task without removing it.
func (q *waitQueue) peek() (*Task, bool) {
	if q.d.Len() == 0 {
		return nil, false
	}
	return q.d.Front(), true
}

// remove takes t out of the queue, reporting whether it was queued.
func (q *waitQueue) remove(t *Task) bool {
	if i := q.d.Index(func(x *Task) bool { return x == t }); i >= 0 {
		q.d.Remove(i)
		return true
	}
	return false
}

// contains reports whether a task with the given id is queued.
func (q *waitQueue) contains(id TaskID) bool {
	return q.d.Index(func(x *Task) bool { return x.id == id }) >= 0
}
