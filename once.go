package taskmx

// Once runs an initialization function exactly once across tasks.
// Tasks that call Do while the first call is still in flight suspend
// until it completes; later calls return immediately. The function
// may itself suspend, which is the reason Once exists as a scheduler
// primitive rather than reusing sync.Once.
type Once struct {
	noCopy  noCopy
	done    bool
	running bool
	wg      WaitGroup
}

// Do invokes fn if and only if Do is being called for the first time
// on this Once. Every call returns only after that first fn has
// completed.
func (o *Once) Do(task *Task, fn func()) {
	if o.done {
		return
	}

	if o.running {
		o.wg.Wait(task)
		return
	}

	o.running = true
	o.wg.Add(1)
	defer func() {
		o.done = true
		o.running = false
		o.wg.Done()
	}()

	fn()
}
