package taskmx

// Ticks is a duration measured in scheduler ticks.
type Ticks uint32

const (
	// NoWait polls: the operation never suspends the caller.
	NoWait Ticks = 0
	// Forever waits indefinitely.
	Forever Ticks = ^Ticks(0)
)

// Priority orders tasks. Numerically higher priorities run, and are
// woken from wait queues, first.
type Priority uint8

// TaskID identifies a task. It is opaque: compare for equality only.
type TaskID uint64

// NoTask is the zero TaskID. It never identifies a live task.
const NoTask TaskID = 0
