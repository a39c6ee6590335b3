package taskmx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriorityDispatch(t *testing.T) {
	r := require.New(t)

	var order []Priority
	sched := New()

	sched.Run(9, func(_ context.Context, task *Task) {
		for _, p := range []Priority{2, 4, 3} {
			task.Gogo(p, func(_ context.Context, task *Task) {
				order = append(order, task.Priority())
			})
		}
	}).Resume(context.Background())

	r.Equal([]Priority{4, 3, 2}, order)
}

func TestPreemption(t *testing.T) {
	r := require.New(t)

	var events []string
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		events = append(events, "root-before")

		task.Gogo(5, func(_ context.Context, _ *Task) {
			events = append(events, "high")
		})

		events = append(events, "root-after")
	}).Resume(context.Background())

	r.Equal([]string{"root-before", "high", "root-after"}, events)
}

func TestEqualPriorityDoesNotPreempt(t *testing.T) {
	r := require.New(t)

	var events []string
	sched := New()

	sched.Run(2, func(_ context.Context, task *Task) {
		events = append(events, "root-before")

		task.Gogo(2, func(_ context.Context, _ *Task) {
			events = append(events, "child")
		})

		events = append(events, "root-after")
	}).Resume(context.Background())

	r.Equal([]string{"root-before", "root-after", "child"}, events)
}

func TestYieldRoundRobin(t *testing.T) {
	r := require.New(t)

	var events []string
	sched := New()

	sched.Run(2, func(_ context.Context, task *Task) {
		task.Gogo(2, func(_ context.Context, _ *Task) {
			events = append(events, "A")
		})
		task.Gogo(2, func(_ context.Context, _ *Task) {
			events = append(events, "B")
		})

		task.Yield()
		events = append(events, "root")
	}).Resume(context.Background())

	r.Equal([]string{"A", "B", "root"}, events)
}

func TestSleepAdvancesClock(t *testing.T) {
	r := require.New(t)

	var at []uint64
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		task.Sleep(10)
		at = append(at, sched.Now())
		task.Sleep(5)
		at = append(at, sched.Now())
	}).Resume(context.Background())

	r.Equal([]uint64{10, 15}, at)
}

func TestSleepWakesInDeadlineOrder(t *testing.T) {
	r := require.New(t)

	var order []string
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		task.Gogo(2, func(_ context.Context, task *Task) {
			task.Sleep(10)
			order = append(order, "slow")
		})
		task.Gogo(2, func(_ context.Context, task *Task) {
			task.Sleep(3)
			order = append(order, "fast")
		})
	}).Resume(context.Background())

	r.Equal([]string{"fast", "slow"}, order)
	r.Equal(uint64(10), sched.Now())
}

func TestWaitForChildren(t *testing.T) {
	r := require.New(t)

	n := 0
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		for i := 0; i < 10; i++ {
			task.Gogo(1, func(_ context.Context, task *Task) {
				task.Sleep(1)
				n++
			})
		}

		task.Wait()
		r.Equal(10, n)
		n++
	}).Resume(context.Background())

	r.Equal(11, n)
}

func TestWaitGroup(t *testing.T) {
	r := require.New(t)

	expect, n := 100, 0
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		var wg WaitGroup

		for i := 0; i < expect-1; i++ {
			wg.Add(1)
			task.Gogo(1, func(_ context.Context, task *Task) {
				defer wg.Done()
				task.Sleep(1)
				n++
			})
		}

		wg.Wait(task)
		n++
	}).Resume(context.Background())

	r.Equal(expect, n)
}

func TestWaitGroupNegativePanics(t *testing.T) {
	r := require.New(t)

	var wg WaitGroup
	r.PanicsWithValue("taskmx: negative WaitGroup counter", func() {
		wg.Add(-1)
	})
}

func TestOnce(t *testing.T) {
	r := require.New(t)

	inits, done := 0, 0
	var once Once
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		for i := 0; i < 5; i++ {
			task.Gogo(1, func(_ context.Context, task *Task) {
				once.Do(task, func() {
					task.Sleep(2)
					inits++
				})
				r.Equal(1, inits)
				done++
			})
		}
	}).Resume(context.Background())

	r.Equal(1, inits)
	r.Equal(5, done)
}

func TestErrGroup(t *testing.T) {
	r := require.New(t)

	boom := errors.New("boom")
	var got error
	canceled := false
	sched := New()

	sched.Run(1, func(_ context.Context, task *Task) {
		group := task.Group()

		group.Go(func(ctx context.Context) error {
			MustTaskFromContext(ctx).Sleep(1)
			return boom
		})

		group.Go(func(ctx context.Context) error {
			MustTaskFromContext(ctx).Sleep(2)
			canceled = ctx.Err() != nil
			return nil
		})

		got = group.Wait(task)
	}).Resume(context.Background())

	r.ErrorIs(got, boom)
	r.True(canceled)
}

func TestTaskFromContext(t *testing.T) {
	r := require.New(t)

	sched := New()

	sched.Go(1, func(ctx context.Context) {
		task := MustTaskFromContext(ctx)
		r.NotEqual(NoTask, task.ID())

		task.Go(2, func(ctx context.Context) {
			child, ok := TaskFromContext(ctx)
			r.True(ok)
			r.NotEqual(task.ID(), child.ID())
			r.Equal(Priority(2), child.Priority())
		})
	}).Resume(context.Background())

	_, ok := TaskFromContext(context.Background())
	r.False(ok)
	r.Panics(func() { MustTaskFromContext(context.Background()) })
}

func TestDeadlockPanics(t *testing.T) {
	r := require.New(t)

	r.Panics(func() {
		sched := New()
		var wg WaitGroup
		wg.Add(1)

		sched.Run(1, func(_ context.Context, task *Task) {
			wg.Wait(task)
		}).Resume(context.Background())
	})
}
