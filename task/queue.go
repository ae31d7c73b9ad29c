package task

import "time"

// The default per-tick time budget.
const DefaultBudget = 8 * time.Millisecond

// Queue is an ordered FIFO of tasks executed cooperatively from a frame loop.
// It is not safe for concurrent use.
type Queue struct {
	tasks []Task

	// Now returns the current time. It can be replaced by tests.
	Now func() time.Time

	lastElapsed time.Duration
	steps       uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{Now: time.Now}
}

// Enqueue appends tasks to the queue.
func (q *Queue) Enqueue(tasks ...Task) {
	for _, t := range tasks {
		if t != nil {
			q.tasks = append(q.tasks, t)
		}
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Clear drops all pending tasks.
func (q *Queue) Clear() {
	q.tasks = nil
}

// LastElapsed returns the time spent by the last call to Run.
func (q *Queue) LastElapsed() time.Duration {
	return q.lastElapsed
}

// Steps returns the total number of steps executed.
func (q *Queue) Steps() uint64 {
	return q.steps
}

// Run executes task steps until the queue is empty, the head task waits on an
// external event or the budget is exceeded. A step that is in progress when
// the budget runs out always completes. A non-positive budget disables the
// time limit. Run returns the elapsed time and the number of pending tasks.
func (q *Queue) Run(budget time.Duration) (time.Duration, int) {
	start := q.Now()
	for len(q.tasks) != 0 {
		head := q.tasks[0]
		more := head.Step()
		q.steps++

		if !more {
			// The step may have enqueued more work; the head is still at 0.
			q.tasks[0] = nil
			q.tasks = q.tasks[1:]
		}

		if more && isWaiting(head) {
			break
		}
		if budget > 0 && q.Now().Sub(start) >= budget {
			break
		}
	}

	q.lastElapsed = q.Now().Sub(start)
	return q.lastElapsed, len(q.tasks)
}
