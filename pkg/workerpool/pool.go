// Package workerpool runs suite projects on a fixed number of goroutines.
//
//	pool := workerpool.New(cfg.Workers)
//	defer pool.Shutdown()
//
//	err := pool.Submit(ctx, func(ctx context.Context) error {
//	    return runProject(ctx, p)
//	})
//
// TrySubmit never blocks and returns ErrPoolFull when the queue is at
// capacity. Run is the usual entry point: it fans a batch out and collects
// one error per task.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Task is a unit of work. It receives the context it was submitted with.
type Task func(ctx context.Context) error

type job struct {
	ctx  context.Context
	task Task
	done func(error)
}

type Pool struct {
	jobs    chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	closeCh chan struct{}
	once    sync.Once
}

// New starts size workers. The queue holds twice as many pending tasks.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		jobs:    make(chan job, size*2),
		closeCh: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues task, blocking until there is room, ctx ends, or the pool
// shuts down. The task's error is discarded; use Run to collect errors.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	return p.submit(ctx, job{ctx: ctx, task: task}, true)
}

// TrySubmit queues task without blocking.
func (p *Pool) TrySubmit(ctx context.Context, task Task) error {
	return p.submit(ctx, job{ctx: ctx, task: task}, false)
}

func (p *Pool) submit(ctx context.Context, j job, wait bool) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	if !wait {
		select {
		case p.jobs <- j:
			return nil
		default:
			return ErrPoolFull
		}
	}

	select {
	case p.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closeCh:
		return ErrPoolClosed
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish. It is
// safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		err := j.ctx.Err()
		if err == nil {
			err = safeRun(j.ctx, j.task)
		}
		if j.done != nil {
			j.done(err)
		}
	}
}

// Run executes tasks on at most size goroutines and returns their errors in
// task order. Tasks not yet started when ctx ends report ctx.Err().
func Run(ctx context.Context, size int, tasks []Task) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}
	if size > len(tasks) {
		size = len(tasks)
	}

	p := New(size)
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		j := job{ctx: ctx, task: task, done: func(err error) {
			errs[i] = err
			wg.Done()
		}}
		if err := p.submit(ctx, j, true); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()
	p.Shutdown()
	return errs
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return task(ctx)
}
