package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Stop signals the dispatcher loop to exit. Tasks already executing, and
// any task the dispatcher has pulled but not yet handed off, still run.
func (p *pool) Stop() {
	p.stopOnce.Do(p.cancel)
}

// Stopped reports whether Stop has been called.
func (p *pool) Stopped() bool {
	return p.ctx.Err() != nil
}

// Workers returns the current number of live workers.
func (p *pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Executing returns the number of tasks currently executing.
func (p *pool) Executing() int {
	return int(p.executing.Load())
}

// MaxWorkers returns the bound on concurrent executions.
func (p *pool) MaxWorkers() int {
	return p.config.MaxWorkers
}

// dispatch is the single loop that drains the source queue and hands tasks
// to workers.
func (p *pool) dispatch() {
	for {
		task, err := p.config.Source.Take(p.ctx)
		if err != nil {
			if p.Stopped() {
				return
			}
			// Recoverable: report and keep draining.
			if p.config.OnDispatchError != nil {
				p.config.OnDispatchError(err)
			}
			continue
		}
		p.handOff(task)
	}
}

// handOff delivers a dequeued task to a worker. The task has already left
// the source queue and has no other home, so a saturated pool is handled by
// retrying the hand-off, never by dropping.
func (p *pool) handOff(task Task) {
	for {
		// Fast path: an idle worker is already waiting.
		select {
		case p.handoff <- task:
			return
		default:
		}

		p.tryGrow()

		select {
		case p.handoff <- task:
			return
		case <-time.After(p.config.RetryInterval):
			// Every worker was busy or retired mid-hand-off; try again.
		}
	}
}

// tryGrow spawns a new worker if the pool is below its bound.
func (p *pool) tryGrow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live >= p.config.MaxWorkers {
		return false
	}
	p.live++
	p.nextWorkerID++

	go p.worker(p.nextWorkerID)
	return true
}

// worker runs tasks from the hand-off channel until it has been idle for
// IdleTimeout, then retires.
func (p *pool) worker(id int) {
	idle := time.NewTimer(p.config.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case task := <-p.handoff:
			p.execute(id, task)

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(p.config.IdleTimeout)
		case <-idle.C:
			p.retire()
			return
		}
	}
}

// retire removes a worker from the live count.
func (p *pool) retire() {
	p.mu.Lock()
	p.live--
	p.mu.Unlock()
}

// execute runs a single task, recovering panics and reporting the result.
func (p *pool) execute(workerID int, task Task) {
	p.executing.Add(1)
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(task, r)
			}
			err = fmt.Errorf("task panicked: %v\nStack trace:\n%s", r, debug.Stack())
		}

		p.executing.Add(-1)

		if p.config.OnTaskComplete != nil {
			p.config.OnTaskComplete(Result{
				Task:     task,
				Error:    err,
				Duration: time.Since(start),
				WorkerID: workerID,
			})
		}
	}()

	// In-flight work is never canceled; the task gets a fresh context.
	err = task.Execute(context.Background())
}
