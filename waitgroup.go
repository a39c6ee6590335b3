package taskmx

// WaitGroup is used to wait for a collection of tasks to finish.
// Tasks call Add(1) when they start and Done() when they finish.
// Other tasks can call Wait() to suspend until all tasks have
// finished.
type WaitGroup struct {
	noCopy noCopy
	v      int32
	w      waitQueue
}

// Add adds delta to the WaitGroup counter. When the counter reaches
// zero every waiting task is readied, highest priority first. If the
// counter goes negative, Add panics.
func (wg *WaitGroup) Add(delta int) {
	wg.v += int32(delta)

	if wg.v < 0 {
		panic("taskmx: negative WaitGroup counter")
	}

	if wg.w.len() != 0 && delta > 0 && wg.v == int32(delta) {
		panic("taskmx: WaitGroup misuse: Add called concurrently with Wait")
	}

	if wg.v > 0 || wg.w.len() == 0 {
		return
	}

	var sched *Schedule
	for {
		t, ok := wg.w.pop()
		if !ok {
			break
		}
		sched = t.sched
		sched.ready(t, wakeReady)
	}
	sched.preempt()
}

// Done decrements the WaitGroup counter by one. It's a convenience
// method equivalent to Add(-1).
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Wait suspends the calling task until the WaitGroup counter is zero.
// If the counter is already zero, it returns immediately.
func (wg *WaitGroup) Wait(task *Task) {
	if wg.v == 0 {
		return
	}

	wg.w.push(task)
	task.block(Forever)
}
