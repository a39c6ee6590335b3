package taskmx

import (
	"context"
	"fmt"
	"runtime/trace"
	"strings"

	"github.com/webriots/coro"
)

const (
	taskTraceTaskType   = "taskmx-task"
	taskTraceRegionType = "taskmx-region"
	taskTraceCategory   = "taskmx"
)

// wake tells a resumed task why the scheduler woke it.
type wake uint8

const (
	wakeReady   wake = iota // scheduled normally: spawn, yield, preemption, children done
	wakeGranted             // ownership of the awaited primitive was transferred
	wakeTimeout             // wait deadline expired
)

type taskState uint8

const (
	stateReady taskState = iota
	stateRunning
	stateBlocked
	stateDone
)

// Task is a coroutine-like unit of execution driven by a Schedule. A
// task runs until it suspends inside a blocking primitive, sleeps,
// yields, or finishes; the scheduler then dispatches the
// highest-priority ready task.
type Task struct {
	ctx      context.Context
	yield    func(struct{}) wake
	suspend  func() wake
	resume   func(wake) (struct{}, bool)
	cancel   func()
	sched    *Schedule
	parent   *Task
	id       TaskID
	prio     Priority
	state    taskState
	wakeWith wake
	childn   int
	kidwait  bool
	wq       *waitQueue  // wait set this task is blocked on, if any
	timer    *timerEntry // pending wait deadline, if any
}

// loop is the run loop: dispatch the highest-priority ready task, and
// when nothing is runnable jump the clock to the earliest pending
// deadline. It returns when every task has finished, and panics when
// tasks remain blocked with no timer that could ever wake them.
func loop(
	ctx context.Context,
	prio Priority,
	fn func(context.Context, *Task),
	sched *Schedule,
) {
	var tracer *trace.Task

	ctx, tracer = trace.NewTask(ctx, taskTraceTaskType)
	defer tracer.End()

	program := func(ctx context.Context, task *Task) {
		fn(ctx, task)
		task.Wait()
	}

	t := newTask(ctx, prio, program, nil, sched)
	defer t.cancel()

	sched.ready(t, wakeReady)
	trace.Logf(ctx, taskTraceCategory, "LOOP")

	for {
		if next, ok := sched.runq.pop(); ok {
			sched.current = next
			next.run(next.wakeWith)
			sched.current = nil
			continue
		}
		if sched.timers.len() > 0 {
			trace.Logf(ctx, taskTraceCategory, "LOOP ADVANCE TIMERS %v", sched.timers.len())
			sched.advance()
			continue
		}
		break
	}

	if sched.blocked > 0 {
		panic(fmt.Sprintf("taskmx: deadlock: %d task(s) blocked with no pending timer", sched.blocked))
	}

	trace.Log(ctx, taskTraceCategory, "LOOP DONE")
}

func newTask(
	ctx context.Context,
	prio Priority,
	fn func(context.Context, *Task),
	parent *Task,
	sched *Schedule,
) *Task {
	task := &Task{
		parent: parent,
		sched:  sched,
		prio:   prio,
	}

	if parent != nil {
		parent.childn++
	}

	sched.nextID++
	task.id = sched.nextID

	task.ctx = withTaskContext(ctx, task)

	resume, cancel := coro.New(
		func(yield func(struct{}) wake, suspend func() wake) (z struct{}) {
			region := trace.StartRegion(task.ctx, taskTraceRegionType)
			defer region.End()

			task.yield = yield
			task.suspend = suspend

			fn(task.ctx, task)

			return
		},
	)

	task.resume = resume
	task.cancel = cancel
	return task
}

// ID returns the task's opaque identity.
func (t *Task) ID() TaskID {
	return t.id
}

// Priority returns the task's priority.
func (t *Task) Priority() Priority {
	return t.prio
}

// Gogo spawns a child task at the given priority. The child preempts
// the caller when it outranks it; otherwise it runs once the caller
// suspends or finishes.
func (t *Task) Gogo(prio Priority, fn func(context.Context, *Task)) *Task {
	return t.gogoctx(t.ctx, prio, fn)
}

// Go spawns a child task at the given priority from a context-only
// function.
func (t *Task) Go(prio Priority, fn func(context.Context)) *Task {
	return t.Gogo(prio, t.sched.Fn(fn))
}

func (t *Task) gogoctx(ctx context.Context, prio Priority, fn func(context.Context, *Task)) *Task {
	task := newTask(ctx, prio, fn, t, t.sched)
	task.Log("GO")
	t.sched.ready(task, wakeReady)
	t.sched.preempt()
	return task
}

// goctx spawns at the caller's priority; used by ErrGroup.
func (t *Task) goctx(ctx context.Context, fn func(context.Context)) {
	t.gogoctx(ctx, t.prio, t.sched.Fn(fn))
}

// Yield moves the caller to the back of its priority band and lets
// the scheduler dispatch. With no other runnable task of equal or
// higher priority the caller continues immediately.
func (t *Task) Yield() {
	t.Log("YIELD")
	t.sched.ready(t, wakeReady)
	t.suspend()
}

// Sleep suspends the caller for d ticks on the virtual clock. Sleep
// with NoWait yields instead.
func (t *Task) Sleep(d Ticks) {
	t.Logf("SLEEP %v", d)

	if d == NoWait {
		t.Yield()
		return
	}

	t.block(d)
}

// Group returns a new ErrGroup rooted at this task.
func (t *Task) Group() ErrGroup {
	return newErrGroup(t)
}

// Wait suspends the caller until all of its child tasks have
// finished.
func (t *Task) Wait() {
	t.Log("WAIT")

	if t.childn > 0 {
		t.kidwait = true
		t.block(Forever)
	}
}

// block suspends t until it is granted ownership, times out, or is
// readied. A finite timeout registers a wakeup on the virtual clock;
// Forever waits until something else wakes t. Returns the wake
// reason.
func (t *Task) block(timeout Ticks) wake {
	t.Log("BLOCK")

	if timeout != Forever {
		t.sched.startTimer(t, timeout)
	}

	t.state = stateBlocked
	t.sched.blocked++
	return t.suspend()
}

// run resumes t with the given wake reason. A task whose coroutine
// returns is finished and unwound from its parent.
func (t *Task) run(w wake) {
	t.Log("RUN")

	t.state = stateRunning
	if _, ok := t.resume(w); ok {
		return
	}

	t.state = stateDone
	t.sched.finish(t)
}

func (t *Task) context() context.Context {
	return t.ctx
}

func (t *Task) Log(msg string) {
	if trace.IsEnabled() {
		var sb strings.Builder
		taskpath(&sb, t)
		sb.WriteRune(' ')
		sb.WriteString(msg)
		trace.Log(t.ctx, taskTraceCategory, sb.String())
	}
}

func (t *Task) Logf(format string, args ...any) {
	if trace.IsEnabled() {
		var sb strings.Builder
		taskpath(&sb, t)
		sb.WriteRune(' ')
		fmt.Fprintf(&sb, format, args...)
		trace.Log(t.ctx, taskTraceCategory, sb.String())
	}
}

func taskpath(sb *strings.Builder, t *Task) {
	if t == nil {
		return
	}
	taskpath(sb, t.parent)
	fmt.Fprintf(sb, "%v|", t.id)
}
