// Package task provides resumable units of work that are executed step by
// step from a frame loop.
package task

// Task is a resumable unit of work. Step performs a bounded amount of work and
// returns true while more steps remain.
type Task interface {
	Step() bool
}

// waiter is implemented by tasks that can be blocked on an external event. A
// waiting task yields the rest of the current tick.
type waiter interface {
	Waiting() bool
}

func isWaiting(t Task) bool {
	w, ok := t.(waiter)
	return ok && w.Waiting()
}

// Func adapts a step function to the Task interface.
type Func func() bool

// Step implements Task.
func (f Func) Step() bool { return f() }

// Do returns a task that runs fn as a single step.
func Do(fn func()) Task {
	return Func(func() bool {
		fn()
		return false
	})
}

// Done is a task with no work.
var Done Task = Func(func() bool { return false })

type sequence struct {
	tasks []Task
}

// Sequence returns a task that steps through tasks in order. Each call to
// Step advances only the current task.
func Sequence(tasks ...Task) Task {
	return &sequence{tasks: tasks}
}

func (s *sequence) Step() bool {
	for len(s.tasks) != 0 && s.tasks[0] == nil {
		s.tasks = s.tasks[1:]
	}
	if len(s.tasks) == 0 {
		return false
	}
	if !s.tasks[0].Step() {
		s.tasks = s.tasks[1:]
	}
	return len(s.tasks) != 0
}

func (s *sequence) Waiting() bool {
	return len(s.tasks) != 0 && isWaiting(s.tasks[0])
}

type lazy struct {
	build func() Task
	task  Task
}

// Lazy returns a task that is constructed by build on its first step. This
// allows work to be planned against state that is only known once earlier
// tasks have run.
func Lazy(build func() Task) Task {
	return &lazy{build: build}
}

func (l *lazy) Step() bool {
	if l.task == nil {
		if l.task = l.build(); l.task == nil {
			l.task = Done
		}
	}
	return l.task.Step()
}

func (l *lazy) Waiting() bool {
	return l.task != nil && isWaiting(l.task)
}

// ForEach returns a task that invokes fn once per step for every index in
// [0, n).
func ForEach(n int, fn func(i int)) Task {
	next := 0
	return Func(func() bool {
		if next >= n {
			return false
		}
		fn(next)
		next++
		return next < n
	})
}

type waitFor struct {
	cond func() bool
}

// WaitFor returns a task that completes once cond reports true. While cond is
// false the task yields the remainder of the tick.
func WaitFor(cond func() bool) Task {
	return &waitFor{cond: cond}
}

func (w *waitFor) Step() bool    { return !w.cond() }
func (w *waitFor) Waiting() bool { return !w.cond() }
