// Package async runs CPU heavy jobs on a bounded set of background workers
// and hands their results back to the main loop.
package async

import (
	"context"
	"sync"

	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/task"
	"golang.org/x/sync/semaphore"
)

// The default number of concurrently running jobs.
const DefaultWorkers = 8

type completion struct {
	result any
	done   func(any)
}

// Pool runs jobs on background goroutines. At most the configured number of
// jobs run at once; the rest wait for a free slot. Job results are buffered
// and delivered by Drain on the goroutine that calls it.
type Pool struct {
	logger  log.Logger
	workers int
	sem     *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mutex       sync.Mutex
	completions []completion
	running     int

	// Submitted jobs whose completion has not been drained yet. Only
	// accessed by the main loop.
	pending int
}

// NewPool creates a pool running up to workers jobs concurrently. Values
// below 1 are clamped to 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		logger:  log.New("async"),
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Workers returns the concurrency cap.
func (p *Pool) Workers() int {
	return p.workers
}

// Submit queues job for execution. Once job returns, done is invoked with its
// result by the next call to Drain.
func (p *Pool) Submit(job func() any, done func(any)) {
	p.pending++
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		p.mutex.Lock()
		p.running++
		instrumentRunning(p.running)
		p.mutex.Unlock()

		result := job()

		p.mutex.Lock()
		p.running--
		instrumentRunning(p.running)
		p.completions = append(p.completions, completion{result: result, done: done})
		p.mutex.Unlock()
	}()
}

// Drain invokes the callbacks of all completed jobs and returns their count.
func (p *Pool) Drain() int {
	p.mutex.Lock()
	completions := p.completions
	p.completions = nil
	p.mutex.Unlock()

	for _, c := range completions {
		if c.done != nil {
			c.done(c.result)
		}
	}
	p.pending -= len(completions)
	instrumentCompleted(len(completions))
	return len(completions)
}

// Pending returns the number of submitted jobs whose completion has not been
// drained.
func (p *Pool) Pending() int {
	return p.pending
}

// Running returns the number of jobs currently executing.
func (p *Pool) Running() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.running
}

// Close drops jobs still waiting for a worker and blocks until the running
// ones return. Their completions are discarded.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()

	p.mutex.Lock()
	dropped := p.pending - len(p.completions)
	p.completions = nil
	p.mutex.Unlock()

	if dropped > 0 {
		p.logger.Debugf("closed worker pool; dropped %d queued jobs", dropped)
	}
	p.pending = 0
}

// Await returns a task that submits job on its first step and then waits
// until its completion has been delivered to done.
func Await(p *Pool, job func() any, done func(any)) task.Task {
	finished := false
	return task.Sequence(
		task.Do(func() {
			p.Submit(job, func(result any) {
				if done != nil {
					done(result)
				}
				finished = true
			})
		}),
		task.WaitFor(func() bool { return finished }),
	)
}
