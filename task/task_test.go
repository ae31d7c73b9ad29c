package task

import (
	"testing"
	"time"
)

// fakeClock advances by step every time it is read.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func TestSequenceStepsInOrder(t *testing.T) {
	var trace []int
	seq := Sequence(
		Do(func() { trace = append(trace, 1) }),
		nil,
		ForEach(2, func(i int) { trace = append(trace, 10+i) }),
		Do(func() { trace = append(trace, 2) }),
	)

	steps := 0
	for seq.Step() {
		steps++
	}
	steps++

	exp := []int{1, 10, 11, 2}
	if len(trace) != len(exp) {
		t.Fatalf("expected trace %v; got %v", exp, trace)
	}
	for i := range exp {
		if trace[i] != exp[i] {
			t.Fatalf("expected trace %v; got %v", exp, trace)
		}
	}
	if steps != 4 {
		t.Fatalf("expected 4 steps; got %d", steps)
	}
}

func TestLazyBuildsOnFirstStep(t *testing.T) {
	value := 0
	built := 0
	l := Lazy(func() Task {
		built++
		n := value
		return ForEach(n, func(int) {})
	})

	value = 3
	steps := 1
	for l.Step() {
		steps++
	}
	if built != 1 {
		t.Fatalf("expected builder to run once; got %d", built)
	}
	if steps != 3 {
		t.Fatalf("expected 3 steps; got %d", steps)
	}

	if Lazy(func() Task { return nil }).Step() {
		t.Fatal("expected a nil lazy task to complete immediately")
	}
}

func TestForEachWithNoItems(t *testing.T) {
	calls := 0
	if ForEach(0, func(int) { calls++ }).Step() {
		t.Fatal("expected empty ForEach to complete on first step")
	}
	if calls != 0 {
		t.Fatalf("expected no calls; got %d", calls)
	}
}

func TestQueueRespectsBudget(t *testing.T) {
	type spec struct {
		budget       time.Duration
		clockStep    time.Duration
		tasks        int
		expRemaining int
	}
	specs := []spec{
		// Every step reads the clock once, so 1ms per step.
		{4 * time.Millisecond, time.Millisecond, 10, 6},
		// The step in progress always completes.
		{time.Nanosecond, time.Millisecond, 10, 9},
		// No budget drains the queue.
		{0, time.Millisecond, 10, 0},
		{time.Second, time.Millisecond, 10, 0},
	}

	for index, s := range specs {
		clock := &fakeClock{now: time.Unix(0, 0), step: s.clockStep}
		q := NewQueue()
		q.Now = clock.Now

		executed := 0
		for i := 0; i < s.tasks; i++ {
			q.Enqueue(Do(func() { executed++ }))
		}

		_, remaining := q.Run(s.budget)
		if remaining != s.expRemaining {
			t.Fatalf("[spec %d] expected %d remaining tasks; got %d", index, s.expRemaining, remaining)
		}
		if executed != s.tasks-s.expRemaining {
			t.Fatalf("[spec %d] expected %d executed tasks; got %d", index, s.tasks-s.expRemaining, executed)
		}
		if q.Len() != remaining {
			t.Fatalf("[spec %d] expected queue length %d; got %d", index, remaining, q.Len())
		}
	}
}

func TestQueueYieldsOnWaitingTask(t *testing.T) {
	ready := false
	after := 0

	q := NewQueue()
	q.Enqueue(
		Sequence(Do(func() {}), WaitFor(func() bool { return ready })),
		Do(func() { after++ }),
	)

	if _, remaining := q.Run(0); remaining != 2 {
		t.Fatalf("expected 2 remaining tasks while waiting; got %d", remaining)
	}
	if after != 0 {
		t.Fatal("expected tasks behind a waiting task to be held back")
	}

	ready = true
	if _, remaining := q.Run(0); remaining != 0 {
		t.Fatalf("expected queue to drain; got %d remaining", remaining)
	}
	if after != 1 {
		t.Fatalf("expected trailing task to run once; got %d", after)
	}
}

func TestQueueRunsTasksEnqueuedDuringRun(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Enqueue(Do(func() {
		q.Enqueue(Do(func() { ran = true }))
	}))

	q.Run(0)
	if !ran {
		t.Fatal("expected task enqueued during Run to be executed")
	}
	if q.Steps() != 2 {
		t.Fatalf("expected 2 steps; got %d", q.Steps())
	}
}
